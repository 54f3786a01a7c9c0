// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package cse

// frame is one environment: local bindings plus a parent link.
type frame struct {
	parent int
	vars   map[string]Value
}

// EnvTable owns every environment frame created during a run. Frames
// are addressed by integer id; closures store ids rather than direct
// references, so the cycles created by the fixed-point combinator live
// entirely inside the table and are reclaimed with it.
type EnvTable struct {
	frames []*frame
}

// NewEnvTable creates a table holding only the primitive environment
// (id 0), which binds every built-in.
func NewEnvTable() *EnvTable {
	e0 := &frame{parent: -1, vars: make(map[string]Value, len(builtinNames))}
	for _, name := range builtinNames {
		e0.vars[name] = Builtin{Name: name}
	}
	return &EnvTable{frames: []*frame{e0}}
}

// New allocates a fresh child frame of parent and returns its id.
func (t *EnvTable) New(parent int) int {
	t.frames = append(t.frames, &frame{parent: parent, vars: make(map[string]Value)})
	return len(t.frames) - 1
}

// Bind binds name to v in the given frame.
func (t *EnvTable) Bind(env int, name string, v Value) {
	t.frames[env].vars[name] = v
}

// Lookup resolves name in env or any of its ancestors.
func (t *EnvTable) Lookup(env int, name string) (Value, bool) {
	for id := env; id >= 0; id = t.frames[id].parent {
		if v, ok := t.frames[id].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
