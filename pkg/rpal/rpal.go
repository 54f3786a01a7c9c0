package rpal

import (
	"io"
	"os"
	"strings"

	"nickandperla.net/rpal/internal/ast"
	"nickandperla.net/rpal/internal/cse"
	"nickandperla.net/rpal/internal/parser"
	"nickandperla.net/rpal/internal/std"
	"nickandperla.net/rpal/internal/store"
)

// Runtime is the RPAL interpreter runtime. It drives the full pipeline
// for each program: lex, parse, standardize, flatten, execute.
type Runtime struct {
	out      io.Writer
	history  store.Store
	maxSteps int
}

// New creates a new RPAL runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Eval runs an RPAL program and returns the output its Print calls
// produced. Output is also streamed to the configured writer, and the
// evaluation is recorded in the history store when one is configured.
func (r *Runtime) Eval(src string) (string, error) {
	return r.EvalReader(strings.NewReader(src))
}

// EvalReader runs an RPAL program from a reader.
func (r *Runtime) EvalReader(reader io.Reader) (string, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return r.eval(string(src))
}

// EvalFile runs an RPAL program from a file.
func (r *Runtime) EvalFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.EvalReader(f)
}

func (r *Runtime) eval(src string) (string, error) {
	deltas, err := r.compile(src)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	w := io.Writer(&buf)
	if r.out != nil {
		w = io.MultiWriter(r.out, &buf)
	}

	opts := []cse.Option{cse.WithOutput(w)}
	if r.maxSteps > 0 {
		opts = append(opts, cse.WithMaxSteps(r.maxSteps))
	}
	if _, err := cse.NewMachine(deltas, opts...).Run(); err != nil {
		return "", err
	}

	output := buf.String()
	if r.history != nil {
		r.history.Append(src, output)
	}
	return output, nil
}

func (r *Runtime) compile(src string) ([]*cse.ControlStructure, error) {
	tree, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	st, err := std.Standardize(tree)
	if err != nil {
		return nil, err
	}
	return cse.Flatten(st)
}

// ParseTree returns the parse tree of src in dotted pre-order form.
func (r *Runtime) ParseTree(src string) (string, error) {
	tree, err := parser.ParseString(src)
	if err != nil {
		return "", err
	}
	return ast.Sprint(tree), nil
}

// StandardTree returns the standardized tree of src in dotted pre-order
// form.
func (r *Runtime) StandardTree(src string) (string, error) {
	tree, err := parser.ParseString(src)
	if err != nil {
		return "", err
	}
	st, err := std.Standardize(tree)
	if err != nil {
		return "", err
	}
	return ast.Sprint(st), nil
}

// History returns the runtime's history store, or nil.
func (r *Runtime) History() store.Store {
	return r.history
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.history != nil {
		return r.history.Close()
	}
	return nil
}
