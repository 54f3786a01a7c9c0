// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package cse

import (
	"fmt"
	"strconv"
	"strings"

	"nickandperla.net/rpal/internal/ast"
	"nickandperla.net/rpal/internal/diag"
	"nickandperla.net/rpal/internal/scanner"
	"nickandperla.net/rpal/internal/std"
)

// Element is one control element. The machine consumes the rightmost
// element of its control sequence first.
type Element interface {
	String() string
}

// Name references an identifier to be resolved in the current
// environment chain.
type Name struct {
	Ident string
}

func (e Name) String() string { return e.Ident }

// Lit pushes a literal value.
type Lit struct {
	Val Value
}

func (e Lit) String() string { return e.Val.Render() }

// Gamma applies the top of the stack to the value beneath it.
type Gamma struct{}

func (Gamma) String() string { return "gamma" }

// Beta selects one of the two conditional branch markers to its left.
type Beta struct{}

func (Beta) String() string { return "beta" }

// Tau builds an n-tuple from the top n stack values.
type Tau struct {
	N int
}

func (e Tau) String() string { return "tau(" + strconv.Itoa(e.N) + ")" }

// Lambda pushes a closure over control structure Delta.
type Lambda struct {
	Delta  int
	Params []string
}

func (e Lambda) String() string {
	return "lambda(" + strconv.Itoa(e.Delta) + ", " + paramsString(e.Params) + ")"
}

// DeltaThen marks the then-branch of a conditional.
type DeltaThen struct {
	Index int
}

func (e DeltaThen) String() string { return "delta-then(" + strconv.Itoa(e.Index) + ")" }

// DeltaElse marks the else-branch of a conditional.
type DeltaElse struct {
	Index int
}

func (e DeltaElse) String() string { return "delta-else(" + strconv.Itoa(e.Index) + ")" }

// Mark is the environment marker e_k pushed when entering environment k.
type Mark struct {
	Env int
}

func (e Mark) String() string { return "e_" + strconv.Itoa(e.Env) }

// YStar pushes the fixed-point combinator.
type YStar struct{}

func (YStar) String() string { return "Y*" }

// BinOp applies a binary operator to the top two stack values.
type BinOp struct {
	Op string
}

func (e BinOp) String() string { return e.Op }

// UnOp applies a unary operator to the top stack value.
type UnOp struct {
	Op string
}

func (e UnOp) String() string { return e.Op }

// ControlStructure is one delta: the linearized body of a lambda, a
// conditional branch, or the top level (index 0).
type ControlStructure struct {
	Index int
	Elems []Element
}

// String renders a delta for debugging.
func (cs *ControlStructure) String() string {
	parts := make([]string, len(cs.Elems))
	for i, e := range cs.Elems {
		parts[i] = e.String()
	}
	return "delta-" + strconv.Itoa(cs.Index) + ": " + strings.Join(parts, " ")
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "**": true,
	"gr": true, "ge": true, "ls": true, "le": true, "eq": true, "ne": true,
	"or": true, "&": true, "aug": true,
}

var unaryOps = map[string]bool{
	"not": true, "neg": true,
}

// Flatten linearizes a standard tree into its control structures.
// Delta 0 is the top level; each lambda body and conditional branch
// gets a delta of its own.
func Flatten(root *ast.Node) ([]*ControlStructure, error) {
	f := &flattener{}
	d0 := f.newDelta()
	if err := f.walk(root, d0); err != nil {
		return nil, err
	}
	return f.deltas, nil
}

type flattener struct {
	deltas []*ControlStructure
}

func (f *flattener) newDelta() *ControlStructure {
	d := &ControlStructure{Index: len(f.deltas)}
	f.deltas = append(f.deltas, d)
	return d
}

func (f *flattener) walk(n *ast.Node, d *ControlStructure) error {
	switch {
	case n.Label == "lambda":
		if len(n.Children) != 2 {
			return flattenBug("lambda node with %d children", len(n.Children))
		}
		params, err := bindVars(n.Children[0])
		if err != nil {
			return err
		}
		body := f.newDelta()
		d.Elems = append(d.Elems, Lambda{Delta: body.Index, Params: params})
		return f.walk(n.Children[1], body)

	case n.Label == "->":
		if len(n.Children) != 3 {
			return flattenBug("conditional node with %d children", len(n.Children))
		}
		then := f.newDelta()
		if err := f.walk(n.Children[1], then); err != nil {
			return err
		}
		alt := f.newDelta()
		if err := f.walk(n.Children[2], alt); err != nil {
			return err
		}
		d.Elems = append(d.Elems, DeltaThen{Index: then.Index}, DeltaElse{Index: alt.Index}, Beta{})
		return f.walk(n.Children[0], d)

	case n.Label == "gamma":
		if len(n.Children) != 2 {
			return flattenBug("gamma node with %d children", len(n.Children))
		}
		d.Elems = append(d.Elems, Gamma{})
		if err := f.walk(n.Children[0], d); err != nil {
			return err
		}
		return f.walk(n.Children[1], d)

	case n.Label == "tau":
		d.Elems = append(d.Elems, Tau{N: len(n.Children)})
		for _, c := range n.Children {
			if err := f.walk(c, d); err != nil {
				return err
			}
		}
		return nil

	case n.Label == std.YStarLabel:
		d.Elems = append(d.Elems, YStar{})
		return nil

	case binaryOps[n.Label]:
		if len(n.Children) != 2 {
			return flattenBug("binary %s node with %d children", n.Label, len(n.Children))
		}
		d.Elems = append(d.Elems, BinOp{Op: n.Label})
		if err := f.walk(n.Children[0], d); err != nil {
			return err
		}
		return f.walk(n.Children[1], d)

	case unaryOps[n.Label]:
		if len(n.Children) != 1 {
			return flattenBug("unary %s node with %d children", n.Label, len(n.Children))
		}
		d.Elems = append(d.Elems, UnOp{Op: n.Label})
		return f.walk(n.Children[0], d)
	}

	return f.leaf(n, d)
}

func (f *flattener) leaf(n *ast.Node, d *ControlStructure) error {
	if len(n.Children) != 0 {
		return flattenBug("unexpected %s node in standard tree", n.Label)
	}
	if name, ok := n.IDName(); ok {
		d.Elems = append(d.Elems, Name{Ident: name})
		return nil
	}
	if lexeme, ok := n.IntLexeme(); ok {
		num, err := scanner.ParseNumber(lexeme)
		if err != nil {
			return flattenBug("malformed integer leaf %s", n.Label)
		}
		d.Elems = append(d.Elems, Lit{Val: Integer{N: num}})
		return nil
	}
	if s, ok := n.StrValue(); ok {
		d.Elems = append(d.Elems, Lit{Val: Str{S: s}})
		return nil
	}
	switch n.Label {
	case "true":
		d.Elems = append(d.Elems, Lit{Val: Bool{B: true}})
	case "false":
		d.Elems = append(d.Elems, Lit{Val: Bool{B: false}})
	case "<nil>":
		d.Elems = append(d.Elems, Lit{Val: &Tuple{}})
	case "dummy":
		d.Elems = append(d.Elems, Lit{Val: Dummy{}})
	default:
		return flattenBug("unexpected %s node in standard tree", n.Label)
	}
	return nil
}

// bindVars extracts the bound-variable descriptor of a lambda: a single
// identifier, a comma-tuple of identifiers, or () for no binding.
func bindVars(n *ast.Node) ([]string, error) {
	if name, ok := n.IDName(); ok {
		return []string{name}, nil
	}
	switch n.Label {
	case "()":
		return nil, nil
	case ",":
		params := make([]string, len(n.Children))
		for i, c := range n.Children {
			name, ok := c.IDName()
			if !ok {
				return nil, flattenBug("non-identifier %s in tuple binding", c.Label)
			}
			params[i] = name
		}
		return params, nil
	}
	return nil, flattenBug("malformed bound variable %s", n.Label)
}

func flattenBug(format string, args ...any) error {
	return &diag.StandardizationError{Msg: fmt.Sprintf(format, args...)}
}
