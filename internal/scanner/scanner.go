// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming rune-at-a-time lexer for RPAL.
package scanner

import (
	"bufio"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/nukata/goarith"

	"nickandperla.net/rpal/internal/diag"
	"nickandperla.net/rpal/internal/token"
)

// Item represents a scanned token with its lexeme and source position.
// Integer items carry the parsed value in Num; string items carry the
// unescaped character sequence in Lexeme.
type Item struct {
	Kind   token.Kind
	Lexeme string
	Num    goarith.Number
	Line   int // 1-based line where the token starts
	Col    int // 1-based column where the token starts
}

// Scanner tokenizes RPAL input rune-by-rune.
type Scanner struct {
	reader  *bufio.Reader
	peeked  *Item
	line    int
	col     int
	prevCol int
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		line:   1,
		col:    0,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// read consumes one rune and advances the position counters.
func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	if r == '\n' {
		s.prevCol = s.col
		s.line++
		s.col = 0
	} else {
		s.prevCol = s.col
		s.col++
	}
	return r, nil
}

// unread pushes back the last rune read and restores the position.
func (s *Scanner) unread(r rune) {
	s.reader.UnreadRune()
	if r == '\n' {
		s.line--
	}
	s.col = s.prevCol
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	if err := s.skipBlanks(); err != nil {
		if err == io.EOF {
			return &Item{Kind: token.EOF, Lexeme: "", Line: s.line, Col: s.col + 1}, nil
		}
		return nil, err
	}

	r, err := s.read()
	if err == io.EOF {
		return &Item{Kind: token.EOF, Lexeme: "", Line: s.line, Col: s.col + 1}, nil
	}
	if err != nil {
		return nil, err
	}

	startLine, startCol := s.line, s.col

	switch {
	case unicode.IsLetter(r) || r == '_':
		return s.scanIdentifier(r, startLine, startCol)
	case unicode.IsDigit(r):
		return s.scanInteger(r, startLine, startCol)
	case r == '\'':
		return s.scanString(startLine, startCol)
	case token.IsPunctRune(r):
		return &Item{Kind: token.Punct, Lexeme: string(r), Line: startLine, Col: startCol}, nil
	case token.IsOperatorRune(r):
		return s.scanOperator(r, startLine, startCol)
	}

	return nil, &diag.LexicalError{
		Msg:  "unrecognized character " + strconv.QuoteRune(r),
		Line: startLine,
		Col:  startCol,
	}
}

// skipBlanks consumes whitespace and // comments to end of line.
func (s *Scanner) skipBlanks() error {
	for {
		if b, err := s.reader.Peek(2); err == nil && b[0] == '/' && b[1] == '/' {
			// Comment runs to end of line.
			for {
				c, err := s.read()
				if err != nil {
					return err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		r, err := s.read()
		if err != nil {
			return err
		}
		if unicode.IsSpace(r) {
			continue
		}
		// Anything else, a lone '/' division operator included, starts
		// a token.
		s.unread(r)
		return nil
	}
}

func (s *Scanner) scanIdentifier(first rune, line, col int) (*Item, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
			continue
		}
		s.unread(r)
		break
	}
	lexeme := sb.String()
	kind := token.Identifier
	if token.IsKeyword(lexeme) {
		kind = token.Keyword
	}
	return &Item{Kind: kind, Lexeme: lexeme, Line: line, Col: col}, nil
}

func (s *Scanner) scanInteger(first rune, line, col int) (*Item, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		s.unread(r)
		break
	}
	lexeme := sb.String()
	num, err := ParseNumber(lexeme)
	if err != nil {
		return nil, &diag.LexicalError{Msg: "malformed integer " + lexeme, Line: line, Col: col}
	}
	return &Item{Kind: token.Integer, Lexeme: lexeme, Num: num, Line: line, Col: col}, nil
}

// ParseNumber parses a decimal integer literal of any magnitude.
func ParseNumber(lexeme string) (goarith.Number, error) {
	if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
		return goarith.AsNumber(n), nil
	}
	z, ok := new(big.Int).SetString(lexeme, 10)
	if !ok {
		return nil, &diag.LexicalError{Msg: "malformed integer " + lexeme}
	}
	return goarith.AsNumber(z), nil
}

// scanString scans a single-quoted string literal. The opening quote has
// already been consumed. Escapes \t, \n, \\ and \' are resolved.
func (s *Scanner) scanString(line, col int) (*Item, error) {
	var sb strings.Builder
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil, &diag.LexicalError{Msg: "unterminated string", Line: line, Col: col}
		}
		if err != nil {
			return nil, err
		}
		switch r {
		case '\'':
			return &Item{Kind: token.String, Lexeme: sb.String(), Line: line, Col: col}, nil
		case '\n':
			return nil, &diag.LexicalError{Msg: "unterminated string", Line: line, Col: col}
		case '\\':
			esc, err := s.read()
			if err != nil {
				return nil, &diag.LexicalError{Msg: "unterminated string", Line: line, Col: col}
			}
			switch esc {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			default:
				return nil, &diag.LexicalError{
					Msg:  "unknown escape \\" + string(esc),
					Line: s.line,
					Col:  s.col,
				}
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// scanOperator scans the longest run of operator characters.
func (s *Scanner) scanOperator(first rune, line, col int) (*Item, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if token.IsOperatorRune(r) {
			sb.WriteRune(r)
			continue
		}
		s.unread(r)
		break
	}
	return &Item{Kind: token.Operator, Lexeme: sb.String(), Line: line, Col: col}, nil
}

// ScanAll drains the scanner, returning every token up to and including
// the EOF sentinel.
func (s *Scanner) ScanAll() ([]*Item, error) {
	var items []*Item
	for {
		item, err := s.Next()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if item.Kind == token.EOF {
			return items, nil
		}
	}
}
