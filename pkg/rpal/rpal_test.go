package rpal

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/rpal/internal/diag"
)

func TestEval(t *testing.T) {
	r := New()
	defer r.Close()

	out, err := r.Eval("let x = 5 in Print(x+3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "8" {
		t.Errorf("expected 8, got %q", out)
	}
}

func TestEvalNoOutput(t *testing.T) {
	r := New()
	defer r.Close()

	out, err := r.Eval("21 * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestWithOutputStreams(t *testing.T) {
	var buf strings.Builder
	r := New(WithOutput(&buf))
	defer r.Close()

	out, err := r.Eval("Print 'hello'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" || buf.String() != "hello" {
		t.Errorf("expected hello both ways, got %q and %q", out, buf.String())
	}
}

func TestSyntaxErrorPropagates(t *testing.T) {
	r := New()
	defer r.Close()

	_, err := r.Eval("let x = in x")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var synErr *diag.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *diag.SyntaxError, got %T", err)
	}
}

func TestRuntimeErrorPropagates(t *testing.T) {
	r := New()
	defer r.Close()

	_, err := r.Eval("Print(1/0)")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	var rtErr *diag.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *diag.RuntimeError, got %T", err)
	}
	if rtErr.Kind != diag.DivisionByZero {
		t.Errorf("expected DivisionByZero, got %s", rtErr.Kind)
	}
}

func TestParseTree(t *testing.T) {
	r := New()
	defer r.Close()

	tree, err := r.ParseTree("let x = 5 in x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "let\n.=\n..<ID:x>\n..<INT:5>\n.<ID:x>\n"
	if tree != want {
		t.Errorf("unexpected parse tree:\n%s", tree)
	}
}

func TestStandardTree(t *testing.T) {
	r := New()
	defer r.Close()

	tree, err := r.StandardTree("let x = 5 in x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "gamma\n.lambda\n..<ID:x>\n..<ID:x>\n.<INT:5>\n"
	if tree != want {
		t.Errorf("unexpected standard tree:\n%s", tree)
	}
}

func TestHistoryRecorded(t *testing.T) {
	r := New(WithMemoryHistory())
	defer r.Close()

	if _, err := r.Eval("Print 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Eval("Print 2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := r.History().Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Source != "Print 2" || entries[0].Output != "2" {
		t.Errorf("unexpected newest entry: %+v", entries[0])
	}
}

func TestFailedEvalNotRecorded(t *testing.T) {
	r := New(WithMemoryHistory())
	defer r.Close()

	if _, err := r.Eval("let x ="); err == nil {
		t.Fatal("expected an error")
	}
	entries, err := r.History().Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestMaxSteps(t *testing.T) {
	r := New(WithMaxSteps(10_000))
	defer r.Close()

	if _, err := r.Eval("let rec loop n = loop n in Print(loop 1)"); err == nil {
		t.Fatal("expected the step limit to fire")
	}
}

func TestEvalReader(t *testing.T) {
	r := New()
	defer r.Close()

	out, err := r.EvalReader(strings.NewReader("Print(Conc 'a' 'b')"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Errorf("expected ab, got %q", out)
	}
}
