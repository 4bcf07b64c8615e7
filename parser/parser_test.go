package parser_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/zkplex/parser"
)

func TestParseSimpleArithmetic(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("A + B")
	c.Assert(err, qt.IsNil)
	c.Assert(expr.Variables(), qt.DeepEquals, []string{"A", "B"})
}

func TestParseComplexArithmetic(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("(A + B) * C")
	c.Assert(err, qt.IsNil)
	c.Assert(expr.Variables(), qt.DeepEquals, []string{"A", "B", "C"})
}

func TestParseComparison(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("A > B")
	c.Assert(err, qt.IsNil)
	cmp, ok := expr.(*parser.Cmp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmp.Op, qt.Equals, parser.Greater)
}

func TestParseComplexComparison(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("(A + B) * C > D")
	c.Assert(err, qt.IsNil)
	c.Assert(expr.Variables(), qt.DeepEquals, []string{"A", "B", "C", "D"})
	cmp, ok := expr.(*parser.Cmp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmp.Op, qt.Equals, parser.Greater)
}

func TestParseBoolean(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("A > B AND C < D")
	c.Assert(err, qt.IsNil)
	b, ok := expr.(*parser.BoolOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(b.Op, qt.Equals, parser.And)
}

func TestParseNot(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("NOT (A > B)")
	c.Assert(err, qt.IsNil)
	u, ok := expr.(*parser.UnaryOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(u.Op, qt.Equals, parser.Not)
}

func TestParsePrecedenceMultiplicationOverAddition(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("A + B * C")
	c.Assert(err, qt.IsNil)
	b, ok := expr.(*parser.BinOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(b.Op, qt.Equals, parser.Add)
	right, ok := b.Right.(*parser.BinOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(right.Op, qt.Equals, parser.Mul)
}

func TestParseParentheses(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("(A + B) * C")
	c.Assert(err, qt.IsNil)
	b, ok := expr.(*parser.BinOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(b.Op, qt.Equals, parser.Mul)
	left, ok := b.Left.(*parser.BinOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(left.Op, qt.Equals, parser.Add)
}

func TestParseNonAssociativeComparisonRejectsChaining(t *testing.T) {
	c := qt.New(t)
	_, err := parser.Parse("A < B < C")
	c.Assert(err, qt.ErrorMatches, ".*unexpected trailing token.*")
}

func TestParseDisplayRoundTrip(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("(A + B) * C")
	c.Assert(err, qt.IsNil)
	c.Assert(expr.String(), qt.Equals, "((A + B) * C)")
}

func TestParseBooleanLiteral(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("TRUE AND FALSE")
	c.Assert(err, qt.IsNil)
	b, ok := expr.(*parser.BoolOp)
	c.Assert(ok, qt.IsTrue)
	left, ok := b.Left.(*parser.BoolLit)
	c.Assert(ok, qt.IsTrue)
	c.Assert(left.Value, qt.IsTrue)
}

func TestParseSymbolicBooleanAliases(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("(age>18)&&(balance>100)")
	c.Assert(err, qt.IsNil)
	b, ok := expr.(*parser.BoolOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(b.Op, qt.Equals, parser.And)

	expr, err = parser.Parse("(age>18)||(balance>100)")
	c.Assert(err, qt.IsNil)
	b, ok = expr.(*parser.BoolOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(b.Op, qt.Equals, parser.Or)
}

func TestParseSymbolicNotAlias(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("!(A > B)")
	c.Assert(err, qt.IsNil)
	u, ok := expr.(*parser.UnaryOp)
	c.Assert(ok, qt.IsTrue)
	c.Assert(u.Op, qt.Equals, parser.Not)
}

func TestParseLargeConstant(t *testing.T) {
	c := qt.New(t)
	expr, err := parser.Parse("99999999999999999999999999999999")
	c.Assert(err, qt.IsNil)
	constant, ok := expr.(*parser.Const)
	c.Assert(ok, qt.IsTrue)
	c.Assert(constant.Value, qt.Equals, "99999999999999999999999999999999")
}
