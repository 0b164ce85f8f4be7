package selftest

import (
	"errors"

	"github.com/bgricker/unitkit/pkg/mock"
	"github.com/bgricker/unitkit/pkg/provider"
	"github.com/bgricker/unitkit/pkg/runner"
)

// AssemblyName names the catalog returned by Catalog.
const AssemblyName = "unitkit-selftest"

type fakeNotifier struct{ *mock.Mock }

func (f fakeNotifier) Notify(account string, delta int) error {
	v, err := f.RecordCall("Notify", account, delta)
	if err != nil {
		return err
	}
	if e, ok := v.(error); ok {
		return e
	}
	return nil
}

type ledgerFixture struct {
	notifier fakeNotifier
	ledger   *Ledger
}

func fixture(instance any) *ledgerFixture { return instance.(*ledgerFixture) }

// Catalog builds the self-test assembly. Doubles bind to reg, which the
// command line resets and verifies around every test.
func Catalog(reg *mock.Registry) *provider.Catalog {
	c := provider.NewCatalog(AssemblyName)

	opened := 0
	c.AddAssemblySetup("OpenBooks", func() error {
		opened++
		return nil
	})

	ledger := c.Fixture("ledger", "Ledger", func() any {
		n := fakeNotifier{mock.New[Notifier](reg)}
		return &ledgerFixture{notifier: n}
	}, provider.InCategory("core"), provider.Described("balance bookkeeping"))

	ledger.AddSetup("NewLedger", func(instance any) error {
		f := fixture(instance)
		f.ledger = NewLedger(f.notifier)
		return nil
	})

	ledger.AddTest("DepositIncreasesBalance", func(instance any) error {
		f := fixture(instance)
		f.notifier.Expects("Notify", "alice", mock.Any[int]())
		if err := f.ledger.Deposit("alice", 250); err != nil {
			return err
		}
		if got := f.ledger.Balance("alice"); got != 250 {
			return runner.Failf("balance: want 250 got %d", got)
		}
		return nil
	})

	ledger.AddTest("WithdrawNotifiesEachChange", func(instance any) error {
		f := fixture(instance)
		var deltas []int
		f.notifier.Expects("Notify", "bob", mock.Any[int]()).
			ToBeInvoked(2).
			WillExecuteCallback(func(args []any) { deltas = append(deltas, args[1].(int)) })
		if err := f.ledger.Deposit("bob", 500); err != nil {
			return err
		}
		if err := f.ledger.Withdraw("bob", 120); err != nil {
			return err
		}
		if len(deltas) != 2 || deltas[0] != 500 || deltas[1] != -120 {
			return runner.Failf("deltas: got %v", deltas)
		}
		return nil
	}, provider.Described("every change is pushed to the notifier"))

	ledger.AddTest("NotifierFailureSurfaces", func(instance any) error {
		f := fixture(instance)
		down := errors.New("notifier down")
		f.notifier.Expects("Notify", mock.Any[string](), mock.Any[int]()).WillReturn(down)
		err := f.ledger.Deposit("carol", 10)
		if !errors.Is(err, down) {
			return runner.Failf("want notifier error, got %v", err)
		}
		return nil
	})

	ledger.AddTest("RejectsOverdraft", func(instance any) error {
		return fixture(instance).ledger.Withdraw("dave", 1)
	}, provider.Expecting[*OverdraftError]("insufficient funds"))

	ledger.AddTest("InterestAccrual", func(any) error {
		return runner.Failf("interest is not implemented")
	}, provider.Ignored("interest accrual lands with rates support"))

	c.Func("ledger", "FormatsCents", func() error {
		for cents, want := range map[int]string{0: "0.00", 5: "0.05", 1999: "19.99", -250: "-2.50"} {
			if got := FormatCents(cents); got != want {
				return runner.Failf("FormatCents(%d): want %q got %q", cents, want, got)
			}
		}
		return nil
	}, provider.InCategory("format"))

	c.Func("ledger", "RejectsNonPositiveDeposit", func() error {
		if err := NewLedger(nil).Deposit("erin", 0); err == nil {
			return runner.Failf("zero deposit was accepted")
		}
		return nil
	}, provider.Named("rejects non-positive deposit"))

	c.Func("ledger", "AssemblySetupRanOnce", func() error {
		if opened != 1 {
			return runner.Failf("OpenBooks ran %d times", opened)
		}
		return nil
	})

	return c
}
