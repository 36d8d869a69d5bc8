// Package report derives totals, budget alerts and exports from an expense
// document. Nothing in here performs I/O except through a caller supplied
// writer.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
)

// Summary holds the headline numbers of a document.
type Summary struct {
	Total     decimal.Decimal
	Budget    decimal.Decimal
	Remaining decimal.Decimal
	// BudgetSet is false when the budget is zero; Remaining is then zero and
	// has no meaning.
	BudgetSet bool
}

// Summarize computes the summary of doc.
func Summarize(doc *expense.Document) Summary {
	s := Summary{
		Total:  ledger.Sum(doc.Expenses),
		Budget: doc.Budget,
	}
	if doc.Budget.IsPositive() {
		s.BudgetSet = true
		s.Remaining = doc.Budget.Sub(s.Total)
	}
	return s
}

// RemainingLabel renders Remaining, or "not set" without a budget.
func (s Summary) RemainingLabel(cur Currency) string {
	if !s.BudgetSet {
		return "not set"
	}
	return cur.Format(s.Remaining)
}

// AlertLevel classifies spending against the budget.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	// AlertInfo means at least 70% of the budget is used.
	AlertInfo
	// AlertWarning means the budget is exceeded.
	AlertWarning
)

func (l AlertLevel) String() string {
	switch l {
	case AlertInfo:
		return "approaching"
	case AlertWarning:
		return "exceeded"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l AlertLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

var approachingRatio = decimal.NewFromFloat(0.7)

// Alert is the result of comparing a total against a budget.
type Alert struct {
	Level  AlertLevel
	Total  decimal.Decimal
	Budget decimal.Decimal
}

// BudgetAlert compares total against budget. A budget of zero or less never
// alerts.
func BudgetAlert(total, budget decimal.Decimal) Alert {
	a := Alert{Level: AlertNone, Total: total, Budget: budget}
	switch {
	case !budget.IsPositive():
	case total.GreaterThan(budget):
		a.Level = AlertWarning
	case total.GreaterThanOrEqual(budget.Mul(approachingRatio)):
		a.Level = AlertInfo
	}
	return a
}

// Used returns the spent share of the budget as a whole percentage.
func (a Alert) Used() int64 {
	if !a.Budget.IsPositive() {
		return 0
	}
	return a.Total.Div(a.Budget).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Message renders the alert for the user. It is empty for AlertNone.
func (a Alert) Message(cur Currency) string {
	switch a.Level {
	case AlertWarning:
		return fmt.Sprintf("You have exceeded your budget! Spent: %s, Budget: %s",
			cur.Format(a.Total), cur.Format(a.Budget))
	case AlertInfo:
		return fmt.Sprintf("You have used %d%% of your budget (>= 70%%). Spent: %s, Budget: %s",
			a.Used(), cur.Format(a.Total), cur.Format(a.Budget))
	default:
		return ""
	}
}

// TopCategories returns the n largest category totals, largest first. Ties
// keep encounter order. n <= 0 returns all categories.
func TopCategories(doc *expense.Document, n int) []ledger.CategoryTotal {
	totals := SortedCategories(doc.Expenses)
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// DefaultMonths is the length of the monthly series shown by default.
const DefaultMonths = 12

// MaxMonths is the longest monthly series callers may ask for (a century).
const MaxMonths = 1200

// MonthlySeries returns monthly totals for the given number of months ending
// with the month of now.
func MonthlySeries(doc *expense.Document, months int, now time.Time) []ledger.MonthTotal {
	return ledger.GroupByMonth(doc.Expenses, months, now)
}
