package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
)

// DefaultTolerance is the amount tolerance used when locating a record by its
// displayed fields.
const DefaultTolerance = 1e-6

// Query selects expenses for display.
type Query struct {
	// Search matches description or category, case-insensitively. Empty matches all.
	Search string
	// Category matches exactly unless empty or expense.AllCategories.
	Category string
}

// Matches reports whether e satisfies both predicates of q.
func (q Query) Matches(e expense.Expense) bool {
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		if !strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(e.Category), search) {
			return false
		}
	}
	if q.Category != "" && q.Category != expense.AllCategories && e.Category != q.Category {
		return false
	}
	return true
}

// Filter returns the records matching q, most recent first.
func Filter(records []expense.Expense, q Query) []expense.Expense {
	out := make([]expense.Expense, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if q.Matches(records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// FindMatch returns the index of the first record whose date, category and
// description are equal to the given values and whose amount is close to
// amount, meaning the absolute difference is at most tolerance.
func FindMatch(records []expense.Expense, date, category, description string, amount decimal.Decimal, tolerance float64) (int, bool) {
	tol := decimal.NewFromFloat(tolerance)
	for i, e := range records {
		if e.Date != date || e.Category != category || e.Description != description {
			continue
		}
		if amountsClose(e.Amount, amount, tol) {
			return i, true
		}
	}
	return -1, false
}

func amountsClose(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Sum adds up the amounts of records.
func Sum(records []expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// GroupByCategory sums amounts per category, in order of first appearance.
// Category names are compared case-sensitively.
func GroupByCategory(records []expense.Expense) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, e := range records {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// CategoryTotals is GroupByCategory as a map.
func CategoryTotals(records []expense.Expense) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, ct := range GroupByCategory(records) {
		out[ct.Category] = ct.Total
	}
	return out
}

// MonthLayout formats MonthTotal.Month.
const MonthLayout = "2006-01"

// MonthTotal is the amount spent in one calendar month.
type MonthTotal struct {
	Month string // YYYY-MM
	Total decimal.Decimal
}

// GroupByMonth returns monthCount consecutive calendar months ending with the
// month of now, oldest first. Months without expenses are zero. Records whose
// date cannot be parsed are skipped.
func GroupByMonth(records []expense.Expense, monthCount int, now time.Time) []MonthTotal {
	if monthCount <= 0 {
		return []MonthTotal{}
	}

	buckets := make(map[string]decimal.Decimal)
	for _, e := range records {
		t, err := e.Time()
		if err != nil {
			continue
		}
		key := t.Format(MonthLayout)
		buckets[key] = buckets[key].Add(e.Amount)
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthTotal, monthCount)
	for i := 0; i < monthCount; i++ {
		key := current.AddDate(0, i-monthCount+1, 0).Format(MonthLayout)
		total, ok := buckets[key]
		if !ok {
			total = decimal.Zero
		}
		out[i] = MonthTotal{Month: key, Total: total}
	}
	return out
}
