package circuit

import (
	"math/big"

	"github.com/vocdoni/zkplex/parser"
	"github.com/vocdoni/zkplex/types"
)

// EvaluateExpression evaluates expr against the current signal map,
// performing arithmetic as field arithmetic (division is multiplication
// by the modular inverse) and ordering comparisons as full big-integer
// comparisons of each operand's canonical (reduced) value.
//
// The original implementation projected both comparison operands to a
// u64 (taking the low 8 bytes of the field representation) before
// comparing, silently truncating any value above 2^64. This reimplements
// comparisons over the full value instead; the synthesized range check,
// sized by max_bits, is what bounds a provable ordering comparison (§9).
func EvaluateExpression(expr parser.Expr, signals map[string]*types.BigInt) (*types.BigInt, error) {
	switch e := expr.(type) {
	case *parser.Var:
		v, ok := signals[e.Name]
		if !ok {
			return nil, types.NewError(types.ErrKindValidation, "undefined signal: "+e.Name)
		}
		return v, nil
	case *parser.Const:
		n, ok := new(big.Int).SetString(e.Value, 10)
		if !ok {
			return nil, types.NewError(types.ErrKindParse, "invalid constant: "+e.Value)
		}
		return (*types.BigInt)(n).ToField(), nil
	case *parser.BoolLit:
		if e.Value {
			return types.NewInt(1), nil
		}
		return types.NewInt(0), nil
	case *parser.UnaryOp:
		operand, err := EvaluateExpression(e.Operand, signals)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case parser.Neg:
			neg := new(big.Int).Neg(operand.MathBigInt())
			return (*types.BigInt)(neg).ToField(), nil
		case parser.Not:
			return boolToField(isZero(operand)), nil
		}
	case *parser.BinOp:
		left, err := EvaluateExpression(e.Left, signals)
		if err != nil {
			return nil, err
		}
		right, err := EvaluateExpression(e.Right, signals)
		if err != nil {
			return nil, err
		}
		return evalArith(e.Op, left, right)
	case *parser.Cmp:
		left, err := EvaluateExpression(e.Left, signals)
		if err != nil {
			return nil, err
		}
		right, err := EvaluateExpression(e.Right, signals)
		if err != nil {
			return nil, err
		}
		return evalCmp(e.Op, left, right), nil
	case *parser.BoolOp:
		left, err := EvaluateExpression(e.Left, signals)
		if err != nil {
			return nil, err
		}
		right, err := EvaluateExpression(e.Right, signals)
		if err != nil {
			return nil, err
		}
		leftBool, rightBool := !isZero(left), !isZero(right)
		switch e.Op {
		case parser.And:
			return boolToField(leftBool && rightBool), nil
		case parser.Or:
			return boolToField(leftBool || rightBool), nil
		}
	}
	return nil, types.NewError(types.ErrKindSynthesis, "unsupported expression node")
}

func evalArith(op parser.ArithOp, left, right *types.BigInt) (*types.BigInt, error) {
	l, r := left.MathBigInt(), right.MathBigInt()
	switch op {
	case parser.Add:
		return (*types.BigInt)(new(big.Int).Add(l, r)).ToField(), nil
	case parser.Sub:
		return (*types.BigInt)(new(big.Int).Sub(l, r)).ToField(), nil
	case parser.Mul:
		return (*types.BigInt)(new(big.Int).Mul(l, r)).ToField(), nil
	case parser.Div:
		if r.Sign() == 0 {
			return nil, types.NewError(types.ErrKindSynthesis, "division by zero")
		}
		inv := new(big.Int).ModInverse(r, types.FieldModulus)
		if inv == nil {
			return nil, types.NewError(types.ErrKindSynthesis, "division by zero")
		}
		return (*types.BigInt)(new(big.Int).Mul(l, inv)).ToField(), nil
	}
	return nil, types.NewError(types.ErrKindSynthesis, "unsupported arithmetic operator")
}

func evalCmp(op parser.CmpOp, left, right *types.BigInt) *types.BigInt {
	cmp := left.MathBigInt().Cmp(right.MathBigInt())
	switch op {
	case parser.Greater:
		return boolToField(cmp > 0)
	case parser.Less:
		return boolToField(cmp < 0)
	case parser.GreaterEqual:
		return boolToField(cmp >= 0)
	case parser.LessEqual:
		return boolToField(cmp <= 0)
	case parser.Equal:
		return boolToField(cmp == 0)
	case parser.NotEqual:
		return boolToField(cmp != 0)
	}
	return types.NewInt(0)
}

func isZero(v *types.BigInt) bool {
	return v.MathBigInt().Sign() == 0
}

func boolToField(b bool) *types.BigInt {
	if b {
		return types.NewInt(1)
	}
	return types.NewInt(0)
}
