// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package ast defines the n-ary RPAL parse tree and its dotted printer.
package ast

import (
	"io"
	"strings"
)

// Node is one parse tree node. The label is drawn from the fixed RPAL
// node set; leaves wrap their payloads as <ID:name>, <INT:n>, <STR:'s'>.
// Trees are not mutated after construction.
type Node struct {
	Label    string
	Children []*Node
}

// New creates a node with the given label and children.
func New(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// ID creates an identifier leaf.
func ID(name string) *Node {
	return &Node{Label: "<ID:" + name + ">"}
}

// Int creates an integer leaf from its decimal lexeme.
func Int(lexeme string) *Node {
	return &Node{Label: "<INT:" + lexeme + ">"}
}

// Str creates a string leaf. The value is the unescaped character
// sequence; the label carries the quoted source form.
func Str(value string) *Node {
	return &Node{Label: "<STR:'" + escape(value) + "'>"}
}

// IDName extracts the identifier name from an <ID:...> leaf.
func (n *Node) IDName() (string, bool) {
	if strings.HasPrefix(n.Label, "<ID:") && strings.HasSuffix(n.Label, ">") {
		return n.Label[4 : len(n.Label)-1], true
	}
	return "", false
}

// IntLexeme extracts the decimal lexeme from an <INT:...> leaf.
func (n *Node) IntLexeme() (string, bool) {
	if strings.HasPrefix(n.Label, "<INT:") && strings.HasSuffix(n.Label, ">") {
		return n.Label[5 : len(n.Label)-1], true
	}
	return "", false
}

// StrValue extracts the unescaped string value from a <STR:'...'> leaf.
func (n *Node) StrValue() (string, bool) {
	if strings.HasPrefix(n.Label, "<STR:'") && strings.HasSuffix(n.Label, "'>") {
		return unescape(n.Label[6 : len(n.Label)-2]), true
	}
	return "", false
}

// Print writes the tree in dotted pre-order form, one node per line,
// indented by depth with '.' characters.
func Print(w io.Writer, root *Node) {
	printNode(w, root, 0)
}

func printNode(w io.Writer, n *Node, depth int) {
	io.WriteString(w, strings.Repeat(".", depth))
	io.WriteString(w, n.Label)
	io.WriteString(w, "\n")
	for _, c := range n.Children {
		printNode(w, c, depth+1)
	}
}

// Sprint returns the dotted pre-order form as a string.
func Sprint(root *Node) string {
	var sb strings.Builder
	Print(&sb, root)
	return sb.String()
}

func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func unescape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
