package circuit

import (
	"fmt"

	"github.com/vocdoni/zkplex/types"
)

// ValidateStrategyCompatibility rejects a requested strategy that cannot
// synthesize the circuit's operations: only Boolean is restricted, since
// it has no range-check gadget and therefore cannot realize an ordering
// comparison.
func ValidateStrategyCompatibility(c *Circuit, strategy types.Strategy) error {
	if strategy != types.StrategyBoolean {
		return nil
	}
	if !c.UsesRangeCheckComparisons() {
		return nil
	}
	return types.NewError(types.ErrKindStrategy, fmt.Sprintf(
		"strategy %q does not support ordering comparisons (>,<,>=,<=); use one of: lookup, bitd, auto",
		strategy.String()))
}
