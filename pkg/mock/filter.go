package mock

import (
	"math"

	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// OrderReset places the registry reset after ignore handling and ahead of
// every other pre-filter.
const OrderReset = math.MinInt + 1

// ResetFilter clears the registry before a test runs.
type ResetFilter struct {
	Registry *Registry
}

func (ResetFilter) Order() int { return OrderReset }

func (f ResetFilter) Before(*runner.Context) error {
	f.Registry.Reset()
	return nil
}

// VerifyFilter verifies the registry once the test body has run, before
// teardown. Ignored tests are not verified.
type VerifyFilter struct {
	Registry *Registry
}

func (VerifyFilter) Order() int { return runner.OrderBeforeTearDown }

func (f VerifyFilter) After(ctx *runner.Context) error {
	if ctx.Result != nil && ctx.Result.Status() == report.StatusIgnore {
		return nil
	}
	return f.Registry.Verify()
}

// SessionFilters returns the filters that scope reg to a single test.
func SessionFilters(reg *Registry) []runner.Filter {
	return []runner.Filter{ResetFilter{Registry: reg}, VerifyFilter{Registry: reg}}
}
