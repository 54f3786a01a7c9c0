package parser

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/rpal/internal/ast"
	"nickandperla.net/rpal/internal/diag"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	tree, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tree
}

func dotted(t *testing.T, src string) string {
	t.Helper()
	return ast.Sprint(parse(t, src))
}

func TestLetTree(t *testing.T) {
	got := dotted(t, "let x = 5 in x")
	want := "let\n" +
		".=\n" +
		"..<ID:x>\n" +
		"..<INT:5>\n" +
		".<ID:x>\n"
	if got != want {
		t.Errorf("unexpected tree:\n%s", got)
	}
}

func TestApplicationLeftAssociative(t *testing.T) {
	got := dotted(t, "f 1 2")
	want := "gamma\n" +
		".gamma\n" +
		"..<ID:f>\n" +
		"..<INT:1>\n" +
		".<INT:2>\n"
	if got != want {
		t.Errorf("unexpected tree:\n%s", got)
	}
}

func TestPowerRightAssociative(t *testing.T) {
	got := dotted(t, "2 ** 3 ** 2")
	want := "**\n" +
		".<INT:2>\n" +
		".**\n" +
		"..<INT:3>\n" +
		"..<INT:2>\n"
	if got != want {
		t.Errorf("unexpected tree:\n%s", got)
	}
}

func TestConditional(t *testing.T) {
	got := dotted(t, "true -> 1 | 2")
	want := "->\n" +
		".true\n" +
		".<INT:1>\n" +
		".<INT:2>\n"
	if got != want {
		t.Errorf("unexpected tree:\n%s", got)
	}
}

func TestTuple(t *testing.T) {
	tree := parse(t, "1, 2, 3")
	if tree.Label != "tau" || len(tree.Children) != 3 {
		t.Errorf("expected tau with 3 children, got %s with %d", tree.Label, len(tree.Children))
	}
}

func TestFunctionForm(t *testing.T) {
	tree := parse(t, "let f x y = x + y in f")
	def := tree.Children[0]
	if def.Label != "function_form" {
		t.Fatalf("expected function_form, got %s", def.Label)
	}
	if len(def.Children) != 4 {
		t.Errorf("expected 4 children (name, two bindings, body), got %d", len(def.Children))
	}
}

func TestTuplePatternBinding(t *testing.T) {
	tree := parse(t, "let f (x,y) = x in f")
	def := tree.Children[0]
	if def.Label != "function_form" {
		t.Fatalf("expected function_form, got %s", def.Label)
	}
	bv := def.Children[1]
	if bv.Label != "," || len(bv.Children) != 2 {
		t.Errorf("expected comma binding with 2 identifiers, got %s with %d", bv.Label, len(bv.Children))
	}
}

func TestWhere(t *testing.T) {
	tree := parse(t, "x + y where y = 2")
	if tree.Label != "where" || len(tree.Children) != 2 {
		t.Fatalf("expected where with 2 children, got %s", tree.Label)
	}
	if tree.Children[1].Label != "=" {
		t.Errorf("expected = on the right of where, got %s", tree.Children[1].Label)
	}
}

func TestAtInfix(t *testing.T) {
	got := dotted(t, "1 @f 2")
	want := "@\n" +
		".<INT:1>\n" +
		".<ID:f>\n" +
		".<INT:2>\n"
	if got != want {
		t.Errorf("unexpected tree:\n%s", got)
	}
}

func TestRecAndKeywordComparisons(t *testing.T) {
	tree := parse(t, "let rec f n = n eq 0 -> 1 | f (n-1) in f 5")
	def := tree.Children[0]
	if def.Label != "rec" {
		t.Fatalf("expected rec, got %s", def.Label)
	}
	got := ast.Sprint(def)
	if !strings.Contains(got, "eq\n") {
		t.Errorf("expected an eq node:\n%s", got)
	}
}

func TestSymbolicComparisonAliases(t *testing.T) {
	for src, label := range map[string]string{
		"1 > 2":  "gr",
		"1 >= 2": "ge",
		"1 < 2":  "ls",
		"1 <= 2": "le",
	} {
		tree := parse(t, src)
		if tree.Label != label {
			t.Errorf("%s: expected %s node, got %s", src, label, tree.Label)
		}
	}
}

func TestUnaryMinus(t *testing.T) {
	tree := parse(t, "-x + y")
	if tree.Label != "+" {
		t.Fatalf("expected + at the root, got %s", tree.Label)
	}
	if tree.Children[0].Label != "neg" {
		t.Errorf("expected neg on the left, got %s", tree.Children[0].Label)
	}
}

func TestFnMultipleBindings(t *testing.T) {
	tree := parse(t, "fn x y . x")
	if tree.Label != "lambda" || len(tree.Children) != 3 {
		t.Fatalf("expected lambda with 3 children, got %s with %d", tree.Label, len(tree.Children))
	}
}

func TestNilAndDummyLiterals(t *testing.T) {
	if got := parse(t, "nil").Label; got != "<nil>" {
		t.Errorf("expected <nil>, got %s", got)
	}
	if got := parse(t, "dummy").Label; got != "dummy" {
		t.Errorf("expected dummy, got %s", got)
	}
}

func TestDeterminism(t *testing.T) {
	src := "let Sum A = Psum (A, Order A) where rec Psum (T,N) = N eq 0 -> 0 | Psum(T, N-1) + T N in Print(Sum(1,2,3,4,5))"
	first := dotted(t, src)
	second := dotted(t, src)
	if first != second {
		t.Error("parsing is not deterministic")
	}
}

func TestSyntaxError(t *testing.T) {
	_, err := ParseString("let x = in x")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var synErr *diag.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *diag.SyntaxError, got %T", err)
	}
	if !strings.HasPrefix(err.Error(), "SyntaxError: ") {
		t.Errorf("unexpected error format: %s", err)
	}
}

func TestTrailingTokens(t *testing.T) {
	_, err := ParseString("x y )")
	if err == nil {
		t.Fatal("expected a syntax error for trailing tokens")
	}
}

func TestStringLeafLabel(t *testing.T) {
	tree := parse(t, `'hi\n'`)
	if tree.Label != `<STR:'hi\n'>` {
		t.Errorf("unexpected label %s", tree.Label)
	}
	if v, ok := tree.StrValue(); !ok || v != "hi\n" {
		t.Errorf("unexpected value %q", v)
	}
}
