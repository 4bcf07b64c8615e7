package parser

import (
	"fmt"

	"github.com/vocdoni/zkplex/types"
)

// Parse parses a circuit expression's source text into an Expr, following
// precedence OR > AND > comparison > additive > multiplicative > unary.
// Comparisons are non-associative: "A < B < C" is a parse error, not a
// chained comparison.
func Parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, types.NewError(types.ErrKindParse, fmt.Sprintf("unexpected trailing token %q", p.peek().text))
	}
	return expr, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.peek().kind != kind {
		return types.NewError(types.ErrKindParse, fmt.Sprintf("expected %s, got %q", what, p.peek().text))
	}
	p.advance()
	return nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BoolOp{Op: Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BoolOp{Op: And, Left: left, Right: right}
	}
	return left, nil
}

// parseComparison allows at most one comparison operator: the grammar is
// non-associative at this level.
func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	op, ok := comparisonOp(p.peek().kind)
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Cmp{Op: op, Left: left, Right: right}, nil
}

func comparisonOp(kind tokenKind) (CmpOp, bool) {
	switch kind {
	case tokGt:
		return Greater, true
	case tokLt:
		return Less, true
	case tokEq:
		return Equal, true
	case tokGe:
		return GreaterEqual, true
	case tokLe:
		return LessEqual, true
	case tokNe:
		return NotEqual, true
	default:
		return 0, false
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ArithOp
		switch p.peek().kind {
		case tokPlus:
			op = Add
		case tokMinus:
			op = Sub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ArithOp
		switch p.peek().kind {
		case tokStar:
			op = Mul
		case tokSlash:
			op = Div
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().kind {
	case tokNot:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: Not, Operand: operand}, nil
	case tokMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: Neg, Operand: operand}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.advance()
		return &Const{Value: t.text}, nil
	case tokIdent:
		p.advance()
		return &Var{Name: t.text}, nil
	case tokTrue:
		p.advance()
		return &BoolLit{Value: true}, nil
	case tokFalse:
		p.advance()
		return &BoolLit{Value: false}, nil
	case tokLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, types.NewError(types.ErrKindParse, fmt.Sprintf("unexpected token %q", t.text))
	}
}

// Variables returns the sorted, deduplicated variable names used across a
// set of expressions, such as a circuit's statement list.
func Variables(exprs ...Expr) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range exprs {
		for _, v := range e.Variables() {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sortStrings(out)
	return out
}
