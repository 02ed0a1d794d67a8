package formula

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		env  Env
		want float64
	}{
		{expr: "1 + 2", want: 3},
		{expr: "2 + 3 * 4", want: 14},
		{expr: "(2 + 3) * 4", want: 20},
		{expr: "10 / 4", want: 2.5},
		{expr: "10 - 4 - 3", want: 3},
		{expr: "-5 + 2", want: -3},
		{expr: "3 * -2", want: -6},
		{expr: "--4", want: 4},
		{expr: "1.5e2", want: 150},
		{expr: ".5 * 4", want: 2},
		{expr: "qty * price", env: Env{"qty": 3, "price": 2.5}, want: 7.5},
		{expr: "  ( total )  ", env: Env{"total": 9}, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr, tt.env)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Fatalf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr string
	}{
		{expr: "", wantErr: "empty expression"},
		{expr: "1 +", wantErr: "unexpected end of expression"},
		{expr: "(1 + 2", wantErr: "missing closing ')'"},
		{expr: "1 2", wantErr: `unexpected token "2"`},
		{expr: "abc + 1", wantErr: `unknown identifier "abc"`},
		{expr: "1.2.3", wantErr: "malformed number"},
		{expr: "2 ^ 3", wantErr: "unexpected character"},
		{expr: "alert('x')", wantErr: "unexpected character"},
		{expr: "Ada + 1", wantErr: `unknown identifier "Ada"`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Evaluate(tt.expr, nil)
			if err == nil {
				t.Fatalf("Evaluate(%q) expected error", tt.expr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Evaluate(%q) error = %v, want substring %q", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, err := Evaluate("4 / (2 - 2)", nil)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestParseString(t *testing.T) {
	expr, err := Parse("(a+b)*-c")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, want := expr.String(), "(a + b) * -c"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestSubstitute(t *testing.T) {
	values := map[string]string{"qty": "3", "qty2": "5", "p": "10"}
	lookup := func(id string) string { return values[id] }

	got := Substitute("qty * p + qty2", []string{"qty", "p", "qty2"}, lookup)
	if want := "3 * 10 + 5"; got != want {
		t.Fatalf("Substitute = %q, want %q", got, want)
	}

	got = Substitute("a-b", []string{"a-b"}, func(string) string { return "7" })
	if got != "7" {
		t.Fatalf("ids with punctuation should substitute verbatim, got %q", got)
	}

	got = Substitute("x + 1", nil, lookup)
	if got != "x + 1" {
		t.Fatalf("no parents should leave text untouched, got %q", got)
	}
}
