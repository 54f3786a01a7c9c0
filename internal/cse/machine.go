// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package cse

import (
	"fmt"
	"io"

	"nickandperla.net/rpal/internal/diag"
)

// Machine executes a flattened program. The triple is control (consumed
// right to left), stack (top on the right) and the id of the active
// environment; environment frames themselves live in the EnvTable.
type Machine struct {
	deltas   []*ControlStructure
	envs     *EnvTable
	control  []Element
	stack    []Value
	active   []int // entered environment ids, innermost last
	out      io.Writer
	printed  bool
	maxSteps int
	step     int
}

// Option configures a Machine.
type Option func(*Machine)

// WithOutput sets the writer Print emits to.
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// WithMaxSteps bounds the number of machine steps; zero means no bound.
func WithMaxSteps(n int) Option {
	return func(m *Machine) { m.maxSteps = n }
}

// NewMachine creates a machine over the given control structures.
// Delta 0 is taken as the top level.
func NewMachine(deltas []*ControlStructure, opts ...Option) *Machine {
	m := &Machine{
		deltas: deltas,
		envs:   NewEnvTable(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Printed reports whether Print was called, even if it wrote nothing.
func (m *Machine) Printed() bool { return m.printed }

// Run executes the program to completion and returns its value.
func (m *Machine) Run() (Value, error) {
	if len(m.deltas) == 0 {
		return nil, fmt.Errorf("cse: no control structures")
	}
	m.active = []int{0}
	m.stack = []Value{envMark{ID: 0}}
	m.control = append(m.control, Mark{Env: 0})
	m.control = append(m.control, m.deltas[0].Elems...)

	for len(m.control) > 0 {
		m.step++
		if m.maxSteps > 0 && m.step > m.maxSteps {
			return nil, fmt.Errorf("cse: exceeded %d machine steps", m.maxSteps)
		}
		if err := m.stepOnce(); err != nil {
			return nil, err
		}
	}

	if len(m.stack) != 1 {
		return nil, fmt.Errorf("cse: halted with %d values on the stack", len(m.stack))
	}
	return m.stack[0], nil
}

func (m *Machine) stepOnce() error {
	el := m.control[len(m.control)-1]
	m.control = m.control[:len(m.control)-1]

	switch e := el.(type) {
	case Lit:
		m.push(e.Val)
		return nil

	case Name:
		v, ok := m.envs.Lookup(m.curEnv(), e.Ident)
		if !ok {
			return m.fail(diag.UnboundIdentifier, "identifier "+e.Ident+" is not defined")
		}
		m.push(v)
		return nil

	case Lambda:
		if e.Delta < 0 || e.Delta >= len(m.deltas) {
			return fmt.Errorf("cse: lambda references missing delta %d", e.Delta)
		}
		m.push(&Closure{Delta: e.Delta, Params: e.Params, Env: m.curEnv()})
		return nil

	case YStar:
		m.push(ystarVal{})
		return nil

	case Gamma:
		return m.apply()

	case Beta:
		return m.branch()

	case Tau:
		items := make([]Value, e.N)
		for i := 0; i < e.N; i++ {
			v, err := m.pop()
			if err != nil {
				return err
			}
			items[i] = v
		}
		m.push(&Tuple{Items: items})
		return nil

	case BinOp:
		left, err := m.pop()
		if err != nil {
			return err
		}
		right, err := m.pop()
		if err != nil {
			return err
		}
		res, err := m.applyBinary(e.Op, left, right)
		if err != nil {
			return err
		}
		m.push(res)
		return nil

	case UnOp:
		v, err := m.pop()
		if err != nil {
			return err
		}
		res, err := m.applyUnary(e.Op, v)
		if err != nil {
			return err
		}
		m.push(res)
		return nil

	case Mark:
		return m.exitEnv(e.Env)
	}

	return fmt.Errorf("cse: stray %s in control", el)
}

// apply implements the gamma rules: closure entry, built-in
// application, tuple indexing, and the fixed-point unrolling pair.
func (m *Machine) apply() error {
	rator, err := m.pop()
	if err != nil {
		return err
	}

	switch f := rator.(type) {
	case *Closure:
		rand, err := m.pop()
		if err != nil {
			return err
		}
		env := m.envs.New(f.Env)
		switch len(f.Params) {
		case 0:
			// () binding: the argument is discarded.
		case 1:
			m.envs.Bind(env, f.Params[0], rand)
		default:
			t, ok := rand.(*Tuple)
			if !ok {
				return m.fail(diag.ArityMismatch,
					fmt.Sprintf("expected a %d-tuple argument, got %s", len(f.Params), rand.Render()))
			}
			if len(t.Items) != len(f.Params) {
				return m.fail(diag.ArityMismatch,
					fmt.Sprintf("expected a %d-tuple argument, got order %d", len(f.Params), len(t.Items)))
			}
			for i, p := range f.Params {
				m.envs.Bind(env, p, t.Items[i])
			}
		}
		m.active = append(m.active, env)
		m.push(envMark{ID: env})
		m.control = append(m.control, Mark{Env: env})
		m.control = append(m.control, m.deltas[f.Delta].Elems...)
		return nil

	case Builtin:
		rand, err := m.pop()
		if err != nil {
			return err
		}
		return m.applyBuiltin(f, rand)

	case *Tuple:
		rand, err := m.pop()
		if err != nil {
			return err
		}
		idx, ok := rand.(Integer)
		if !ok {
			return m.fail(diag.TypeMismatch, "tuple index must be an integer, got "+rand.Render())
		}
		k, ok := toInt(idx.N)
		if !ok || k < 1 || k > len(f.Items) {
			return m.fail(diag.IndexOutOfRange,
				fmt.Sprintf("index %s on tuple of order %d", idx.Render(), len(f.Items)))
		}
		m.push(f.Items[k-1])
		return nil

	case ystarVal:
		rand, err := m.pop()
		if err != nil {
			return err
		}
		c, ok := rand.(*Closure)
		if !ok {
			return m.fail(diag.TypeMismatch, "Y* expects a lambda closure, got "+rand.Render())
		}
		m.push(&Eta{Fn: c})
		return nil

	case *Eta:
		// Unroll one level of the fixed point: apply the underlying
		// closure to the eta-closure itself, then re-apply.
		m.push(f)
		m.push(f.Fn)
		m.control = append(m.control, Gamma{}, Gamma{})
		return nil
	}

	return m.fail(diag.TypeMismatch, "cannot apply "+rator.Render())
}

// branch implements the beta rule: consume the two branch markers to
// the left of beta and inline the chosen delta.
func (m *Machine) branch() error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	cond, ok := v.(Bool)
	if !ok {
		return m.fail(diag.InvalidConditional, "condition must be a truth value, got "+v.Render())
	}
	if len(m.control) < 2 {
		return fmt.Errorf("cse: beta without branch markers")
	}
	alt, ok := m.control[len(m.control)-1].(DeltaElse)
	if !ok {
		return fmt.Errorf("cse: beta not paired with delta-else")
	}
	then, ok := m.control[len(m.control)-2].(DeltaThen)
	if !ok {
		return fmt.Errorf("cse: beta not paired with delta-then")
	}
	m.control = m.control[:len(m.control)-2]

	idx := then.Index
	if !cond.B {
		idx = alt.Index
	}
	m.control = append(m.control, m.deltas[idx].Elems...)
	return nil
}

// exitEnv implements rule 8: the return value sits above the matching
// environment marker; drop the marker and revert to the environment
// that was active before this one was entered.
func (m *Machine) exitEnv(id int) error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	mk, err := m.pop()
	if err != nil {
		return err
	}
	em, ok := mk.(envMark)
	if !ok || em.ID != id {
		return fmt.Errorf("cse: environment marker mismatch: expected e_%d, found %s", id, mk.Render())
	}
	if len(m.active) == 0 || m.active[len(m.active)-1] != id {
		return fmt.Errorf("cse: environment e_%d is not the active environment", id)
	}
	m.active = m.active[:len(m.active)-1]
	m.push(v)
	return nil
}

func (m *Machine) curEnv() int {
	if len(m.active) == 0 {
		return 0
	}
	return m.active[len(m.active)-1]
}

func (m *Machine) push(v Value) {
	m.stack = append(m.stack, v)
}

func (m *Machine) pop() (Value, error) {
	if len(m.stack) == 0 {
		return nil, fmt.Errorf("cse: value stack underflow")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

// fail builds a fatal runtime error carrying the machine position and a
// snapshot of the top of the stack.
func (m *Machine) fail(kind diag.RuntimeKind, msg string) error {
	top := ""
	if len(m.stack) > 0 {
		top = m.stack[len(m.stack)-1].Render()
	}
	return &diag.RuntimeError{Kind: kind, Msg: msg, Elem: m.step, Env: m.curEnv(), Top: top}
}
