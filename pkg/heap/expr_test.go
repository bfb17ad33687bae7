package heap

import "testing"

func TestParseExpr(t *testing.T) {
	tests := []struct {
		in   string
		want Expr
	}{
		{"nil", Nil},
		{"", Nil},
		{"x", Var{Name: "x", Kind: VarProgram}},
		{"_n", Var{Name: "n", Kind: VarLogical}},
		{"$7", Var{Name: "7", Kind: VarPlaceholder}},
		{"42", Const{Value: 42}},
		{"-3", Const{Value: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseExpr(tt.in)
			if !ExprEqual(got, tt.want) {
				t.Errorf("ParseExpr(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseExprRoundTrip(t *testing.T) {
	for _, s := range []string{"nil", "x", "_n", "$anon0", "42"} {
		if got := ParseExpr(s).String(); got != s {
			t.Errorf("round trip %q = %q", s, got)
		}
	}
}

func TestExprEqualDistinguishesKinds(t *testing.T) {
	a := Var{Name: "x", Kind: VarProgram}
	b := Var{Name: "x", Kind: VarLogical}
	if ExprEqual(a, b) {
		t.Error("program and logical variable with the same name compare equal")
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !IsPlaceholder(Var{Name: "a", Kind: VarPlaceholder}) {
		t.Error("placeholder var not recognized")
	}
	if IsPlaceholder(Var{Name: "a", Kind: VarProgram}) {
		t.Error("program var misclassified as placeholder")
	}
	if IsPlaceholder(Nil) {
		t.Error("nil misclassified as placeholder")
	}
}

func TestSyntacticProver(t *testing.T) {
	p := SyntacticProver{}
	if !p.IsNil(Nil) {
		t.Error("nil literal not nil")
	}
	if !p.IsNil(Const{Value: 0}) {
		t.Error("zero constant not nil")
	}
	if p.IsNil(Const{Value: 1}) {
		t.Error("nonzero constant reported nil")
	}
	if p.IsNil(Var{Name: "x"}) {
		t.Error("variable reported nil")
	}
}
