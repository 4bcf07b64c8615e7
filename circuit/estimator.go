package circuit

import (
	"github.com/vocdoni/zkplex/parser"
	"github.com/vocdoni/zkplex/types"
)

// Estimate holds hardware-independent sizing predictions for a circuit
// under a chosen (or auto-resolved) strategy.
type Estimate struct {
	K                        uint32
	TotalRows                uint64
	EstimatedRows            uint32
	OperationCount           uint32
	CheapComparisonCount     uint32
	ExpensiveComparisonCount uint32
	PreprocessCount          uint32
	ParamsSizeBytes          uint64
	ProofSizeBytes           uint64
	VKSizeBytes              uint64
	Complexity               string
	ResolvedStrategy         types.Strategy
}

// EstimateRequirements analyzes the circuit and predicts the proving
// system's resource requirements: the k parameter (2^k total rows), row
// accounting per operation kind, and size predictions for the public
// parameters, proof, and verification key. Passing StrategyAuto resolves
// to Lookup, BitD, or Boolean based on circuit shape, mirroring strategy
// selection in synthesis.
func EstimateRequirements(c *Circuit, strategy types.Strategy) Estimate {
	var opCount, cheap, expensive uint32
	for _, s := range c.Statements {
		ops, ch, ex := countOperations(s.Expr)
		opCount += ops
		cheap += ch
		expensive += ex
	}

	preprocessCount := uint32(len(c.Statements))
	maxBits, hasMaxBits := c.MaxRangeCheckBits()

	resolved := strategy
	if strategy == types.StrategyAuto {
		if c.UsesRangeCheckComparisons() {
			if hasMaxBits && maxBits <= 16 {
				resolved = types.StrategyLookup
			} else {
				resolved = types.StrategyBitD
			}
		} else {
			resolved = types.StrategyBoolean
		}
	}

	kMin, baseOverhead := baseRowsForStrategy(resolved, maxBits, hasMaxBits)

	opRows := opCount * 4
	cheapRows := cheap * 8
	var expensiveRows uint32
	switch resolved {
	case types.StrategyBoolean:
		expensiveRows = 0
	case types.StrategyBitD:
		expensiveRows = expensive * 80
	case types.StrategyLookup:
		expensiveRows = expensive * 15
	default:
		expensiveRows = expensive * 25
	}

	estimatedRowsRaw := baseOverhead + opRows + cheapRows + expensiveRows
	estimatedRows := (estimatedRowsRaw * 5) / 4 // +25% safety margin

	var kEstimated uint32 = 8
	for (uint32(1)<<kEstimated) < estimatedRows && kEstimated < 30 {
		kEstimated++
	}

	finalK := kEstimated
	if kMin > finalK {
		finalK = kMin
	}

	totalRows := uint64(1) << finalK
	paramsBytes := totalRows * 32
	proofBytes := uint64(10240) + uint64(finalK)*3072
	const fixedColumns = 4
	vkBytes := uint64(1024) + uint64(fixedColumns)*32

	return Estimate{
		K:                        finalK,
		TotalRows:                totalRows,
		EstimatedRows:            estimatedRows,
		OperationCount:           opCount,
		CheapComparisonCount:     cheap,
		ExpensiveComparisonCount: expensive,
		PreprocessCount:          preprocessCount,
		ParamsSizeBytes:          paramsBytes,
		ProofSizeBytes:           proofBytes,
		VKSizeBytes:              vkBytes,
		Complexity:               complexityLabel(finalK),
		ResolvedStrategy:         resolved,
	}
}

func baseRowsForStrategy(strategy types.Strategy, maxBits int, hasMaxBits bool) (uint32, uint32) {
	switch strategy {
	case types.StrategyBoolean:
		return 8, 48
	case types.StrategyBitD:
		if !hasMaxBits {
			return 8, 64
		}
		switch maxBits {
		case 8:
			return 9, 100
		case 16:
			return 10, 150
		case 32:
			return 11, 200
		case 64:
			return 12, 250
		default:
			return 20, 1000
		}
	case types.StrategyLookup:
		if !hasMaxBits {
			return 8, 64
		}
		switch maxBits {
		case 8:
			return 8, 256
		case 16:
			return 17, 65536
		case 32:
			return 17, 65538
		case 64:
			return 17, 65540
		default:
			return 17, 65700
		}
	default: // Auto (only reached if called directly with StrategyAuto and no comparisons)
		if !hasMaxBits {
			return 8, 64
		}
		switch maxBits {
		case 8:
			return 8, 256
		case 16:
			return 17, 65536
		case 32, 64:
			return 17, 65538
		default:
			return 17, 65536
		}
	}
}

func complexityLabel(k uint32) string {
	switch {
	case k <= 10:
		return "Very Simple"
	case k <= 14:
		return "Simple"
	case k <= 18:
		return "Medium"
	case k <= 22:
		return "Complex"
	case k <= 26:
		return "Very Complex"
	default:
		return "Extremely Complex"
	}
}

// countOperations returns (total_operations, cheap_comparisons,
// expensive_comparisons) for expr: equality comparisons are cheap
// (is_zero gadget), ordering comparisons are expensive (range check).
func countOperations(expr parser.Expr) (uint32, uint32, uint32) {
	switch e := expr.(type) {
	case *parser.Var, *parser.Const, *parser.BoolLit:
		return 1, 0, 0
	case *parser.BinOp:
		lo, lc, le := countOperations(e.Left)
		ro, rc, re := countOperations(e.Right)
		return 2 + lo + ro, lc + rc, le + re
	case *parser.BoolOp:
		lo, lc, le := countOperations(e.Left)
		ro, rc, re := countOperations(e.Right)
		return 2 + lo + ro, lc + rc, le + re
	case *parser.UnaryOp:
		o, c, ex := countOperations(e.Operand)
		return 1 + o, c, ex
	case *parser.Cmp:
		lo, lc, le := countOperations(e.Left)
		ro, rc, re := countOperations(e.Right)
		var cheap, exp uint32
		switch e.Op {
		case parser.Equal, parser.NotEqual:
			cheap = 1
		default:
			exp = 1
		}
		return 2 + lo + ro, lc + rc + cheap, le + re + exp
	default:
		return 0, 0, 0
	}
}
