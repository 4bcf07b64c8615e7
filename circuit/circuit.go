package circuit

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/zkplex/encoding"
	"github.com/vocdoni/zkplex/log"
	"github.com/vocdoni/zkplex/parser"
	"github.com/vocdoni/zkplex/preprocess"
	"github.com/vocdoni/zkplex/types"
)

// Statement is one parsed circuit-list entry: either a named assignment
// ("name<==expr") or a bare expression, whose value only matters when it
// is the final statement (the circuit's output).
type Statement struct {
	Name string // empty for a bare expression
	Expr parser.Expr
}

// IsAssignment reports whether the statement binds its value to a name.
func (s Statement) IsAssignment() bool { return s.Name != "" }

// Circuit is the compiled, evaluable form of a Program: parsed circuit
// statements, the field-converted signal values available at build time,
// the public signal name order, and the computed output.
type Circuit struct {
	Statements        []Statement
	Signals           map[string]*types.BigInt
	PublicSignalNames []string
	Output            *types.BigInt
	Strategy          types.Strategy

	// cachedMaxBits survives WithoutWitnesses so a verifier reconstructing
	// the circuit without any signal values still synthesizes the same
	// range-check table shape as the prover did.
	cachedMaxBits *int
}

// BuildFromProgram runs the full build pipeline: converts secret and
// public signal values to field elements, runs preprocessing, parses and
// evaluates the circuit statement list in order, and caches max_bits.
func BuildFromProgram(p *Program) (*Circuit, error) {
	signals := make(map[string]*types.BigInt)
	inputBytes := make(map[string][]byte)

	addSignals := func(names []string, get func(string) (Signal, bool)) error {
		for _, name := range names {
			sig, _ := get(name)
			if sig.IsOutput() {
				continue
			}
			var raw []byte
			var err error
			if sig.Encoding != nil {
				raw, err = encoding.Parse(*sig.Value, *sig.Encoding)
			} else {
				raw, _, err = encoding.ParseAuto(*sig.Value)
			}
			if err != nil {
				return types.WrapError(types.ErrKindEncoding, fmt.Sprintf("signal %q", name), err)
			}
			field := encoding.ToField(raw)
			signals[name] = field
			inputBytes[name] = leBytes32(field)
		}
		return nil
	}

	if err := addSignals(p.SecretNames(), p.Secret); err != nil {
		return nil, err
	}

	var publicNames []string
	for _, name := range p.PublicNames() {
		sig, _ := p.Public(name)
		// The output signal is declared public with no value (or "?" or
		// ""); it is excluded from the public instance's input list,
		// since its value is computed, not supplied.
		if sig.IsOutput() {
			continue
		}
		publicNames = append(publicNames, name)
	}
	if err := addSignals(p.PublicNames(), p.Public); err != nil {
		return nil, err
	}

	if len(p.Preprocess) > 0 {
		statements := make([]preprocess.Statement, 0, len(p.Preprocess))
		for _, raw := range p.Preprocess {
			stmt, err := preprocess.ParseStatement(raw)
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		}
		// Best effort: a verifier reconstructing the circuit without a full
		// witness may be missing signals preprocessing depends on: continue
		// without those intermediate values rather than failing the build.
		outputs, err := preprocess.Execute(statements, inputBytes, true)
		if err != nil {
			log.Debugw("preprocessing failed during circuit build, continuing without it", "error", err.Error())
		} else {
			for name, raw := range outputs {
				signals[name] = new(types.BigInt).SetBytes(raw).ToField()
			}
		}
	}

	statements := make([]Statement, 0, len(p.Circuit))
	for _, raw := range p.Circuit {
		stmt, err := parseCircuitStatement(raw)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	var output *types.BigInt
	for _, stmt := range statements {
		value, err := EvaluateExpression(stmt.Expr, signals)
		if err != nil {
			// Evaluation may legitimately fail in shape-only mode (no
			// witness available); later statements simply won't resolve.
			continue
		}
		if stmt.IsAssignment() {
			signals[stmt.Name] = value
		}
		output = value
	}

	c := &Circuit{
		Statements:        statements,
		Signals:           signals,
		PublicSignalNames: publicNames,
		Output:            output,
		Strategy:          types.StrategyAuto,
	}
	maxBits := c.computeMaxRangeCheckBits()
	c.cachedMaxBits = maxBits
	return c, nil
}

func parseCircuitStatement(raw string) (Statement, error) {
	if idx := indexAssign(raw); idx >= 0 {
		name := raw[:idx]
		exprSrc := raw[idx+len("<=="):]
		expr, err := parser.Parse(exprSrc)
		if err != nil {
			return Statement{}, err
		}
		return Statement{Name: trimSpace(name), Expr: expr}, nil
	}
	expr, err := parser.Parse(raw)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Expr: expr}, nil
}

func indexAssign(s string) int {
	for i := 0; i+3 <= len(s); i++ {
		if s[i] == '<' && s[i+1] == '=' && s[i+2] == '=' {
			return i
		}
	}
	return -1
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// WithoutWitnesses returns a copy of the circuit with all signal values
// and the computed output cleared, but cachedMaxBits preserved, so a
// verifier can reconstruct and synthesize an identical constraint shape
// without ever learning the prover's witness.
func (c *Circuit) WithoutWitnesses() *Circuit {
	return &Circuit{
		Statements:        c.Statements,
		Signals:           map[string]*types.BigInt{},
		PublicSignalNames: c.PublicSignalNames,
		Output:            nil,
		Strategy:          c.Strategy,
		cachedMaxBits:     c.cachedMaxBits,
	}
}

// UsesBooleanOperations reports whether any statement uses AND/OR/NOT.
func (c *Circuit) UsesBooleanOperations() bool {
	for _, s := range c.Statements {
		if exprUsesBooleanOperations(s.Expr) {
			return true
		}
	}
	return false
}

// UsesEqualityComparisons reports whether any statement uses ==/!=.
func (c *Circuit) UsesEqualityComparisons() bool {
	for _, s := range c.Statements {
		if exprUsesEqualityComparisons(s.Expr) {
			return true
		}
	}
	return false
}

// UsesRangeCheckComparisons reports whether any statement uses an ordering
// comparison (>,<,>=,<=), which is the only family that needs a range
// check to synthesize.
func (c *Circuit) UsesRangeCheckComparisons() bool {
	for _, s := range c.Statements {
		if exprUsesOrderingComparisons(s.Expr) {
			return true
		}
	}
	return false
}

func exprUsesBooleanOperations(e parser.Expr) bool {
	switch v := e.(type) {
	case *parser.BoolOp:
		return true
	case *parser.UnaryOp:
		if v.Op == parser.Not {
			return true
		}
		return exprUsesBooleanOperations(v.Operand)
	case *parser.BinOp:
		return exprUsesBooleanOperations(v.Left) || exprUsesBooleanOperations(v.Right)
	case *parser.Cmp:
		return exprUsesBooleanOperations(v.Left) || exprUsesBooleanOperations(v.Right)
	default:
		return false
	}
}

func exprUsesEqualityComparisons(e parser.Expr) bool {
	switch v := e.(type) {
	case *parser.Cmp:
		if v.Op == parser.Equal || v.Op == parser.NotEqual {
			return true
		}
		return exprUsesEqualityComparisons(v.Left) || exprUsesEqualityComparisons(v.Right)
	case *parser.BoolOp:
		return exprUsesEqualityComparisons(v.Left) || exprUsesEqualityComparisons(v.Right)
	case *parser.UnaryOp:
		return exprUsesEqualityComparisons(v.Operand)
	case *parser.BinOp:
		return exprUsesEqualityComparisons(v.Left) || exprUsesEqualityComparisons(v.Right)
	default:
		return false
	}
}

func exprUsesOrderingComparisons(e parser.Expr) bool {
	switch v := e.(type) {
	case *parser.Cmp:
		switch v.Op {
		case parser.Greater, parser.Less, parser.GreaterEqual, parser.LessEqual:
			return true
		}
		return exprUsesOrderingComparisons(v.Left) || exprUsesOrderingComparisons(v.Right)
	case *parser.BoolOp:
		return exprUsesOrderingComparisons(v.Left) || exprUsesOrderingComparisons(v.Right)
	case *parser.UnaryOp:
		return exprUsesOrderingComparisons(v.Operand)
	case *parser.BinOp:
		return exprUsesOrderingComparisons(v.Left) || exprUsesOrderingComparisons(v.Right)
	default:
		return false
	}
}

// MaxRangeCheckBits returns the cached max_bits value, if any was computed.
func (c *Circuit) MaxRangeCheckBits() (int, bool) {
	if c.cachedMaxBits == nil {
		return 0, false
	}
	return *c.cachedMaxBits, true
}

// computeMaxRangeCheckBits walks every ordering comparison in the
// statement list, sizing the range check to the largest operand seen. A
// circuit with no ordering comparisons needs no range check at all: this
// is why an (a==b) AND (c>d) only sizes the check off c and d, never a/b
// (the max-bits-minimality property that equality comparisons on
// arbitrarily large values never force a wider range check).
func (c *Circuit) computeMaxRangeCheckBits() *int {
	if !c.UsesRangeCheckComparisons() {
		return nil
	}
	maxBits := 8
	for _, s := range c.Statements {
		maxBits = maxBitsInOrderingComparisons(s.Expr, c.Signals, maxBits)
	}
	return &maxBits
}

func maxBitsInOrderingComparisons(e parser.Expr, signals map[string]*types.BigInt, current int) int {
	switch v := e.(type) {
	case *parser.Cmp:
		switch v.Op {
		case parser.Greater, parser.Less, parser.GreaterEqual, parser.LessEqual:
			lb := evaluateAndGetBits(v.Left, signals)
			rb := evaluateAndGetBits(v.Right, signals)
			if lb > current {
				current = lb
			}
			if rb > current {
				current = rb
			}
		}
		current = maxBitsInOrderingComparisons(v.Left, signals, current)
		current = maxBitsInOrderingComparisons(v.Right, signals, current)
		return current
	case *parser.BoolOp:
		current = maxBitsInOrderingComparisons(v.Left, signals, current)
		current = maxBitsInOrderingComparisons(v.Right, signals, current)
		return current
	case *parser.UnaryOp:
		return maxBitsInOrderingComparisons(v.Operand, signals, current)
	case *parser.BinOp:
		current = maxBitsInOrderingComparisons(v.Left, signals, current)
		current = maxBitsInOrderingComparisons(v.Right, signals, current)
		return current
	default:
		return current
	}
}

func evaluateAndGetBits(e parser.Expr, signals map[string]*types.BigInt) int {
	value, err := EvaluateExpression(e, signals)
	if err != nil {
		return structuralMaxBits(e, signals)
	}
	return fieldToBits(value)
}

// structuralMaxBits is the conservative fallback used when no witness is
// available (shape-only mode): it never underestimates, capping at 64
// bits, the widest size any strategy supports for ordering comparisons.
func structuralMaxBits(e parser.Expr, signals map[string]*types.BigInt) int {
	switch v := e.(type) {
	case *parser.Var:
		if val, ok := signals[v.Name]; ok {
			return fieldToBits(val)
		}
		return 64
	case *parser.Const:
		n, ok := new(big.Int).SetString(v.Value, 10)
		if !ok {
			return 64
		}
		return fieldToBits((*types.BigInt)(n))
	case *parser.BoolLit:
		return 8
	case *parser.Cmp:
		return 8
	case *parser.BinOp:
		l := structuralMaxBits(v.Left, signals)
		r := structuralMaxBits(v.Right, signals)
		sum := l + r
		if sum > 64 {
			return 64
		}
		return sum
	case *parser.UnaryOp:
		return structuralMaxBits(v.Operand, signals)
	case *parser.BoolOp:
		return 8
	default:
		return 64
	}
}

// fieldToBits finds the bit width of a field value's canonical
// representation, rounding up to the next size a strategy supports:
// 8, 16, 32, or 64 (the cap). Values wider than 64 bits are also reported
// as 64; this function does not reject them.
func fieldToBits(value *types.BigInt) int {
	bits := value.MathBigInt().BitLen()
	switch {
	case bits <= 8:
		return 8
	case bits <= 16:
		return 16
	case bits <= 32:
		return 32
	default:
		return 64
	}
}

// leBytes32 renders a field element as a little-endian, zero-padded
// 32-byte buffer, the representation preprocessing statements consume.
func leBytes32(value *types.BigInt) []byte {
	be := value.MathBigInt().Bytes()
	out := make([]byte, 32)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}
