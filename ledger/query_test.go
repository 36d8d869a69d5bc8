package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
)

func rec(amount, category, description, date string) expense.Expense {
	return expense.Expense{
		ID:          uuid.New(),
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: description,
		Date:        date,
	}
}

func descriptions(records []expense.Expense) []string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.Description
	}
	return out
}

func TestFilter(t *testing.T) {
	records := []expense.Expense{
		rec("10", "Food", "Lunch", "2024-01-01 12:00:00"),
		rec("20", "Transport", "Bus", "2024-01-02 08:00:00"),
		rec("30", "Food", "Dinner with Ada", "2024-01-03 19:00:00"),
		rec("40", "Fast Food", "burger", "2024-01-04 13:00:00"),
	}

	t.Run("no predicates returns everything most recent first", func(t *testing.T) {
		got := Filter(records, Query{})
		assert.Equal(t, []string{"burger", "Dinner with Ada", "Bus", "Lunch"}, descriptions(got))
	})

	t.Run("all category is no filter", func(t *testing.T) {
		got := Filter(records, Query{Category: expense.AllCategories})
		assert.Equal(t, 4, len(got))
	})

	t.Run("category matches exactly", func(t *testing.T) {
		got := Filter(records, Query{Category: "Food"})
		assert.Equal(t, []string{"Dinner with Ada", "Lunch"}, descriptions(got))
	})

	t.Run("search is case insensitive over description and category", func(t *testing.T) {
		got := Filter(records, Query{Search: "FOOD"})
		assert.Equal(t, []string{"burger", "Dinner with Ada", "Lunch"}, descriptions(got))

		got = Filter(records, Query{Search: "ada"})
		assert.Equal(t, []string{"Dinner with Ada"}, descriptions(got))
	})

	t.Run("both predicates must hold", func(t *testing.T) {
		got := Filter(records, Query{Search: "dinner", Category: "Transport"})
		assert.Equal(t, 0, len(got))
	})

	t.Run("input is not modified", func(t *testing.T) {
		Filter(records, Query{})
		assert.Equal(t, "Lunch", records[0].Description)
	})
}

func TestFindMatch(t *testing.T) {
	records := []expense.Expense{
		rec("100.00", "Food", "Lunch", "2024-01-01 12:00:00"),
		rec("100.00", "Food", "Lunch", "2024-01-01 12:00:00"),
		rec("5.50", "Transport", "Bus", "2024-01-02 08:00:00"),
	}

	t.Run("returns first match", func(t *testing.T) {
		i, ok := FindMatch(records, "2024-01-01 12:00:00", "Food", "Lunch", decimal.RequireFromString("100"), DefaultTolerance)
		assert.True(t, ok)
		assert.Equal(t, 0, i)
	})

	t.Run("amount within tolerance", func(t *testing.T) {
		i, ok := FindMatch(records, "2024-01-01 12:00:00", "Food", "Lunch", decimal.RequireFromString("99.999999"), DefaultTolerance)
		assert.True(t, ok)
		assert.Equal(t, 0, i)
	})

	t.Run("amount one cent off does not match", func(t *testing.T) {
		_, ok := FindMatch(records, "2024-01-01 12:00:00", "Food", "Lunch", decimal.RequireFromString("100.01"), DefaultTolerance)
		assert.False(t, ok)
	})

	t.Run("text fields must be equal", func(t *testing.T) {
		_, ok := FindMatch(records, "2024-01-01 12:00:00", "food", "Lunch", decimal.RequireFromString("100"), DefaultTolerance)
		assert.False(t, ok)

		_, ok = FindMatch(records, "2024-01-01 12:00:01", "Food", "Lunch", decimal.RequireFromString("100"), DefaultTolerance)
		assert.False(t, ok)
	})

	t.Run("large amounts one cent apart do not match", func(t *testing.T) {
		large := []expense.Expense{rec("10000.00", "Bills", "Rent", "2024-01-01 00:00:00")}
		_, ok := FindMatch(large, "2024-01-01 00:00:00", "Bills", "Rent", decimal.RequireFromString("10000.01"), DefaultTolerance)
		assert.False(t, ok)
	})

	t.Run("zero amounts match", func(t *testing.T) {
		zero := []expense.Expense{rec("0", "Other", "Free", "2024-01-01 00:00:00")}
		i, ok := FindMatch(zero, "2024-01-01 00:00:00", "Other", "Free", decimal.Zero, DefaultTolerance)
		assert.True(t, ok)
		assert.Equal(t, 0, i)
	})
}

func TestSumAndGroupByCategory(t *testing.T) {
	records := []expense.Expense{
		rec("10", "Food", "a", "2024-01-01 00:00:00"),
		rec("20", "Transport", "b", "2024-01-01 00:00:00"),
		rec("30", "Food", "c", "2024-01-01 00:00:00"),
		rec("0.10", "food", "d", "2024-01-01 00:00:00"),
	}

	assert.Equal(t, "60.10", Sum(records).StringFixed(2))

	groups := GroupByCategory(records)
	assert.Equal(t, 3, len(groups))
	assert.Equal(t, "Food", groups[0].Category)
	assert.Equal(t, "40.00", groups[0].Total.StringFixed(2))
	assert.Equal(t, "Transport", groups[1].Category)
	assert.Equal(t, "food", groups[2].Category)

	groupTotal := decimal.Zero
	for _, g := range groups {
		groupTotal = groupTotal.Add(g.Total)
	}
	assert.True(t, groupTotal.Equal(Sum(records)))

	totals := CategoryTotals(records)
	assert.Equal(t, "20.00", totals["Transport"].StringFixed(2))

	assert.Equal(t, 0, len(GroupByCategory(nil)))
	assert.True(t, Sum(nil).IsZero())
}

func TestGroupByMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	records := []expense.Expense{
		rec("10", "Food", "a", "2024-03-01 09:00:00"),
		rec("5", "Food", "b", "2024-03-20 09:00:00"),
		rec("7", "Food", "c", "2024-01-31 23:59:59"),
		rec("100", "Food", "old", "2022-01-01 00:00:00"),
		rec("1", "Food", "broken", "not a date"),
	}

	t.Run("twelve months ending with the current one", func(t *testing.T) {
		months := GroupByMonth(records, 12, now)
		assert.Equal(t, 12, len(months))
		assert.Equal(t, "2023-04", months[0].Month)
		assert.Equal(t, "2024-03", months[11].Month)
		assert.Equal(t, "15.00", months[11].Total.StringFixed(2))
		assert.Equal(t, "0.00", months[10].Total.StringFixed(2))
		assert.Equal(t, "7.00", months[9].Total.StringFixed(2))
		assert.Equal(t, "0.00", months[0].Total.StringFixed(2))
	})

	t.Run("wraps across year end", func(t *testing.T) {
		jan := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.Local)
		months := GroupByMonth(records, 3, jan)
		assert.Equal(t, []string{"2023-11", "2023-12", "2024-01"}, []string{months[0].Month, months[1].Month, months[2].Month})
		assert.Equal(t, "7.00", months[2].Total.StringFixed(2))
	})

	t.Run("non-positive count", func(t *testing.T) {
		assert.Equal(t, 0, len(GroupByMonth(records, 0, now)))
		assert.Equal(t, 0, len(GroupByMonth(records, -3, now)))
	})

	t.Run("empty ledger is all zero", func(t *testing.T) {
		months := GroupByMonth(nil, 12, now)
		assert.Equal(t, 12, len(months))
		for _, m := range months {
			assert.True(t, m.Total.IsZero())
		}
	})
}
