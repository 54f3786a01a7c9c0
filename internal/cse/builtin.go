// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package cse

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/nukata/goarith"

	"nickandperla.net/rpal/internal/diag"
)

// builtinNames are the primitives bound in environment 0.
var builtinNames = []string{
	"Print", "Conc", "Stem", "Stern", "Order", "Null",
	"Isinteger", "Isstring", "Istruthvalue", "Isfunction",
	"Istuple", "Isdummy", "ItoS",
}

var zero = goarith.AsNumber(int64(0))
var one = goarith.AsNumber(int64(1))

// applyBuiltin applies a primitive to one argument and pushes the
// result. Conc is curried: its first application yields a partial that
// waits for the second string.
func (m *Machine) applyBuiltin(b Builtin, rand Value) error {
	switch b.Name {
	case "Print":
		fmt.Fprint(m.out, rand.Render())
		m.printed = true
		m.push(Dummy{})
		return nil

	case "Conc":
		s, ok := rand.(Str)
		if !ok {
			return m.fail(diag.TypeMismatch, "Conc expects a string, got "+rand.Render())
		}
		if len(b.Args) == 0 {
			m.push(Builtin{Name: "Conc", Args: []Value{s}})
			return nil
		}
		first := b.Args[0].(Str)
		m.push(Str{S: first.S + s.S})
		return nil

	case "Stem":
		s, ok := rand.(Str)
		if !ok {
			return m.fail(diag.TypeMismatch, "Stem expects a string, got "+rand.Render())
		}
		if s.S == "" {
			m.push(Str{S: ""})
			return nil
		}
		m.push(Str{S: string([]rune(s.S)[:1])})
		return nil

	case "Stern":
		s, ok := rand.(Str)
		if !ok {
			return m.fail(diag.TypeMismatch, "Stern expects a string, got "+rand.Render())
		}
		runes := []rune(s.S)
		if len(runes) == 0 {
			m.push(Str{S: ""})
			return nil
		}
		m.push(Str{S: string(runes[1:])})
		return nil

	case "Order":
		t, ok := rand.(*Tuple)
		if !ok {
			return m.fail(diag.TypeMismatch, "Order expects a tuple, got "+rand.Render())
		}
		m.push(Integer{N: goarith.AsNumber(int64(len(t.Items)))})
		return nil

	case "Null":
		t, ok := rand.(*Tuple)
		if !ok {
			return m.fail(diag.TypeMismatch, "Null expects a tuple, got "+rand.Render())
		}
		m.push(Bool{B: len(t.Items) == 0})
		return nil

	case "Isinteger":
		_, ok := rand.(Integer)
		m.push(Bool{B: ok})
		return nil

	case "Isstring":
		_, ok := rand.(Str)
		m.push(Bool{B: ok})
		return nil

	case "Istruthvalue":
		_, ok := rand.(Bool)
		m.push(Bool{B: ok})
		return nil

	case "Isfunction":
		switch rand.(type) {
		case *Closure, *Eta, Builtin:
			m.push(Bool{B: true})
		default:
			m.push(Bool{B: false})
		}
		return nil

	case "Istuple":
		_, ok := rand.(*Tuple)
		m.push(Bool{B: ok})
		return nil

	case "Isdummy":
		_, ok := rand.(Dummy)
		m.push(Bool{B: ok})
		return nil

	case "ItoS":
		n, ok := rand.(Integer)
		if !ok {
			return m.fail(diag.TypeMismatch, "ItoS expects an integer, got "+rand.Render())
		}
		m.push(Str{S: n.N.String()})
		return nil
	}

	return fmt.Errorf("cse: unknown builtin %s", b.Name)
}

// applyBinary evaluates op with left and right operands.
func (m *Machine) applyBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "**":
		a, b, err := m.intOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			return Integer{N: a.Add(b)}, nil
		case "-":
			return Integer{N: a.Sub(b)}, nil
		case "*":
			return Integer{N: a.Mul(b)}, nil
		case "/":
			if b.Cmp(zero) == 0 {
				return nil, m.fail(diag.DivisionByZero, left.Render()+" / 0")
			}
			q, _ := a.QuoRem(b)
			return Integer{N: q}, nil
		case "**":
			return m.power(a, b)
		}

	case "gr", "ge", "ls", "le":
		c, err := m.compare(op, left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "gr":
			return Bool{B: c > 0}, nil
		case "ge":
			return Bool{B: c >= 0}, nil
		case "ls":
			return Bool{B: c < 0}, nil
		case "le":
			return Bool{B: c <= 0}, nil
		}

	case "eq", "ne":
		same, err := m.equal(left, right)
		if err != nil {
			return nil, err
		}
		if op == "ne" {
			same = !same
		}
		return Bool{B: same}, nil

	case "or", "&":
		a, aok := left.(Bool)
		b, bok := right.(Bool)
		if !aok || !bok {
			return nil, m.fail(diag.TypeMismatch,
				op+" expects truth values, got "+left.Render()+" and "+right.Render())
		}
		if op == "or" {
			return Bool{B: a.B || b.B}, nil
		}
		return Bool{B: a.B && b.B}, nil

	case "aug":
		t, ok := left.(*Tuple)
		if !ok {
			return nil, m.fail(diag.TypeMismatch, "aug expects a tuple on the left, got "+left.Render())
		}
		items := make([]Value, len(t.Items)+1)
		copy(items, t.Items)
		items[len(t.Items)] = right
		return &Tuple{Items: items}, nil
	}

	return nil, fmt.Errorf("cse: unknown binary operator %s", op)
}

// applyUnary evaluates a unary operator.
func (m *Machine) applyUnary(op string, v Value) (Value, error) {
	switch op {
	case "not":
		b, ok := v.(Bool)
		if !ok {
			return nil, m.fail(diag.TypeMismatch, "not expects a truth value, got "+v.Render())
		}
		return Bool{B: !b.B}, nil
	case "neg":
		n, ok := v.(Integer)
		if !ok {
			return nil, m.fail(diag.TypeMismatch, "neg expects an integer, got "+v.Render())
		}
		return Integer{N: zero.Sub(n.N)}, nil
	}
	return nil, fmt.Errorf("cse: unknown unary operator %s", op)
}

func (m *Machine) intOperands(op string, left, right Value) (goarith.Number, goarith.Number, error) {
	a, aok := left.(Integer)
	b, bok := right.(Integer)
	if !aok || !bok {
		return nil, nil, m.fail(diag.TypeMismatch,
			op+" expects integers, got "+left.Render()+" and "+right.Render())
	}
	return a.N, b.N, nil
}

// compare orders two integers or two strings.
func (m *Machine) compare(op string, left, right Value) (int, error) {
	if a, ok := left.(Integer); ok {
		if b, ok := right.(Integer); ok {
			return a.N.Cmp(b.N), nil
		}
	}
	if a, ok := left.(Str); ok {
		if b, ok := right.(Str); ok {
			return strings.Compare(a.S, b.S), nil
		}
	}
	return 0, m.fail(diag.TypeMismatch,
		op+" expects two integers or two strings, got "+left.Render()+" and "+right.Render())
}

// equal compares two values of the same primitive kind.
func (m *Machine) equal(left, right Value) (bool, error) {
	if a, ok := left.(Integer); ok {
		if b, ok := right.(Integer); ok {
			return a.N.Cmp(b.N) == 0, nil
		}
	}
	if a, ok := left.(Str); ok {
		if b, ok := right.(Str); ok {
			return a.S == b.S, nil
		}
	}
	if a, ok := left.(Bool); ok {
		if b, ok := right.(Bool); ok {
			return a.B == b.B, nil
		}
	}
	return false, m.fail(diag.TypeMismatch,
		"eq expects operands of the same primitive type, got "+left.Render()+" and "+right.Render())
}

// power computes a ** b for a non-negative integer exponent.
func (m *Machine) power(a, b goarith.Number) (Value, error) {
	exp, ok := toInt(b)
	if !ok || exp < 0 {
		return nil, m.fail(diag.TypeMismatch, "** expects a non-negative machine-sized exponent")
	}
	result := one
	base := a
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
		}
	}
	return Integer{N: result}, nil
}

// toInt narrows a goarith number to a host int when it fits.
func toInt(n goarith.Number) (int, bool) {
	switch v := n.(type) {
	case goarith.Int32:
		return int(v), true
	case goarith.Int64:
		return int(v), true
	case *goarith.BigInt:
		z := (*big.Int)(v)
		if z.IsInt64() {
			return int(z.Int64()), true
		}
	}
	return 0, false
}
