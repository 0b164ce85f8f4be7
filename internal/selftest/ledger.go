// Package selftest is the assembly the unitkit binary ships with: a small
// ledger and the fixtures that exercise it through the framework.
package selftest

import (
	"fmt"
	"strconv"
)

// Notifier is told about every balance change.
type Notifier interface {
	Notify(account string, delta int) error
}

// OverdraftError is returned when a withdrawal exceeds the balance.
type OverdraftError struct {
	Account string
	Short   int
}

func (e *OverdraftError) Error() string { return "insufficient funds" }

// Ledger tracks balances in cents.
type Ledger struct {
	balances map[string]int
	notifier Notifier
}

// NewLedger returns an empty ledger reporting to n. A nil n is allowed.
func NewLedger(n Notifier) *Ledger {
	return &Ledger{balances: map[string]int{}, notifier: n}
}

// Balance returns the current balance of account.
func (l *Ledger) Balance(account string) int { return l.balances[account] }

// Deposit adds cents to account.
func (l *Ledger) Deposit(account string, cents int) error {
	if cents <= 0 {
		return fmt.Errorf("deposit %d: amount must be positive", cents)
	}
	l.balances[account] += cents
	return l.notify(account, cents)
}

// Withdraw removes cents from account.
func (l *Ledger) Withdraw(account string, cents int) error {
	if cents <= 0 {
		return fmt.Errorf("withdraw %d: amount must be positive", cents)
	}
	if have := l.balances[account]; have < cents {
		return &OverdraftError{Account: account, Short: cents - have}
	}
	l.balances[account] -= cents
	return l.notify(account, -cents)
}

func (l *Ledger) notify(account string, delta int) error {
	if l.notifier == nil {
		return nil
	}
	if err := l.notifier.Notify(account, delta); err != nil {
		return fmt.Errorf("notify %s: %w", account, err)
	}
	return nil
}

// FormatCents renders cents as a decimal amount.
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	frac := strconv.Itoa(cents % 100)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.Itoa(cents/100) + "." + frac
}
