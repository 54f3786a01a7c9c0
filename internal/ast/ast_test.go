package ast

import "testing"

func TestSprint(t *testing.T) {
	tree := New("let",
		New("=", ID("x"), Int("5")),
		ID("x"),
	)
	want := "let\n.=\n..<ID:x>\n..<INT:5>\n.<ID:x>\n"
	if got := Sprint(tree); got != want {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestLeafHelpers(t *testing.T) {
	if name, ok := ID("foo").IDName(); !ok || name != "foo" {
		t.Errorf("IDName: got %q, %v", name, ok)
	}
	if lexeme, ok := Int("42").IntLexeme(); !ok || lexeme != "42" {
		t.Errorf("IntLexeme: got %q, %v", lexeme, ok)
	}
	if _, ok := New("gamma").IDName(); ok {
		t.Error("gamma is not an identifier leaf")
	}
}

func TestStrRoundTrip(t *testing.T) {
	n := Str("a\tb\nc\\d'e")
	if n.Label != `<STR:'a\tb\nc\\d\'e'>` {
		t.Errorf("unexpected label %s", n.Label)
	}
	if v, ok := n.StrValue(); !ok || v != "a\tb\nc\\d'e" {
		t.Errorf("unexpected value %q", v)
	}
}
