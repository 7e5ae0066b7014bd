package token

import "testing"

func TestStringKnownType(t *testing.T) {
	if got := Number.String(); got != "Number" {
		t.Errorf("got %q, want %q", got, "Number")
	}
}

func TestStringUnknownType(t *testing.T) {
	if got := Type(9999).String(); got != "Type(?)" {
		t.Errorf("got %q, want %q", got, "Type(?)")
	}
}

func TestNewConstructor(t *testing.T) {
	tok := New(Identifier, "x", 4)
	if tok.Type != Identifier || tok.Value != "x" || tok.Pos != 4 {
		t.Errorf("got %+v, want {Identifier x 4}", tok)
	}
}
