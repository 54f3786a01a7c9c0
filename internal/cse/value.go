// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package cse implements the Control-Stack-Environment machine that
// executes flattened RPAL programs.
package cse

import (
	"strconv"
	"strings"

	"github.com/nukata/goarith"
)

// Value is anything the machine can hold on its stack.
type Value interface {
	// Render returns the printable form of the value, as emitted by
	// the Print built-in.
	Render() string
}

// Integer is an arbitrary-precision RPAL integer.
type Integer struct {
	N goarith.Number
}

func (v Integer) Render() string { return v.N.String() }

// Str is an RPAL string.
type Str struct {
	S string
}

func (v Str) Render() string { return v.S }

// Bool is an RPAL truth value.
type Bool struct {
	B bool
}

func (v Bool) Render() string {
	if v.B {
		return "true"
	}
	return "false"
}

// Dummy is the dummy value.
type Dummy struct{}

func (Dummy) Render() string { return "dummy" }

// Tuple is a finite ordered sequence of values, 1-indexed. The empty
// tuple is nil. Tuples are immutable once built.
type Tuple struct {
	Items []Value
}

func (v *Tuple) Render() string {
	if len(v.Items) == 0 {
		return "nil"
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range v.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.Render())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Closure pairs a lambda body with the environment active at its
// creation. Delta indexes the body's control structure; Params is the
// bound-variable descriptor.
type Closure struct {
	Delta  int
	Params []string
	Env    int
}

func (v *Closure) Render() string {
	return "[lambda closure: " + paramsString(v.Params) + "]"
}

// Eta wraps a closure to delay a recursive fixed point until it is
// applied.
type Eta struct {
	Fn *Closure
}

func (v *Eta) Render() string {
	return "[eta closure: " + paramsString(v.Fn.Params) + "]"
}

// Builtin is a primitive function tag, possibly partially applied.
type Builtin struct {
	Name string
	Args []Value
}

func (v Builtin) Render() string { return "[builtin: " + v.Name + "]" }

// ystarVal is the fixed-point combinator as a stack value.
type ystarVal struct{}

func (ystarVal) Render() string { return "Y*" }

// envMark is an environment marker on the value stack.
type envMark struct {
	ID int
}

func (v envMark) Render() string { return "e_" + strconv.Itoa(v.ID) }

func paramsString(params []string) string {
	if len(params) == 0 {
		return "()"
	}
	return strings.Join(params, ",")
}
