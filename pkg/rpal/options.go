// Package rpal provides the public API for the RPAL interpreter.
package rpal

import (
	"io"

	"nickandperla.net/rpal/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput streams Print output to w as it is produced, in addition
// to the captured output Eval returns.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.out = w
	}
}

// WithSQLiteHistory configures SQLite-backed evaluation history at the
// given path.
func WithSQLiteHistory(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.history = s
		}
	}
}

// WithMemoryHistory configures an in-memory history store (for testing).
func WithMemoryHistory() Option {
	return func(r *Runtime) {
		r.history = store.NewMemory()
	}
}

// WithHistory sets an explicit history store.
func WithHistory(s store.Store) Option {
	return func(r *Runtime) {
		r.history = s
	}
}

// WithMaxSteps bounds the number of CSE machine steps per evaluation;
// zero means no bound.
func WithMaxSteps(n int) Option {
	return func(r *Runtime) {
		r.maxSteps = n
	}
}
