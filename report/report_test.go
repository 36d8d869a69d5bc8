package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rec(amount, category, description, date string) expense.Expense {
	return expense.Expense{
		ID:          uuid.New(),
		Amount:      d(amount),
		Category:    category,
		Description: description,
		Date:        date,
	}
}

func TestSummarize(t *testing.T) {
	doc := &expense.Document{
		Expenses: []expense.Expense{
			rec("700", "Food", "a", "2024-01-01 00:00:00"),
			rec("50", "Bills", "b", "2024-01-02 00:00:00"),
		},
		Budget: d("1000"),
	}

	s := Summarize(doc)
	assert.Equal(t, "750.00", s.Total.StringFixed(2))
	assert.True(t, s.BudgetSet)
	assert.Equal(t, "250.00", s.Remaining.StringFixed(2))
	assert.Equal(t, s, Summarize(doc))
	assert.Equal(t, "₦250.00", s.RemainingLabel(NewCurrency("")))

	doc.Budget = decimal.Zero
	s = Summarize(doc)
	assert.False(t, s.BudgetSet)
	assert.True(t, s.Remaining.IsZero())
	assert.Equal(t, "not set", s.RemainingLabel(NewCurrency("")))
}

func TestBudgetAlert(t *testing.T) {
	tests := []struct {
		name   string
		total  string
		budget string
		want   AlertLevel
	}{
		{"approaching", "750", "1000", AlertInfo},
		{"exactly seventy percent", "700", "1000", AlertInfo},
		{"exactly at budget", "1000", "1000", AlertInfo},
		{"exceeded", "1200", "1000", AlertWarning},
		{"below threshold", "699.99", "1000", AlertNone},
		{"no budget", "1200", "0", AlertNone},
		{"negative budget", "10", "-5", AlertNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetAlert(d(tt.total), d(tt.budget)).Level)
		})
	}
}

func TestAlertMessage(t *testing.T) {
	cur := NewCurrency("$")

	msg := BudgetAlert(d("750"), d("1000")).Message(cur)
	assert.Equal(t, "You have used 75% of your budget (>= 70%). Spent: $750.00, Budget: $1,000.00", msg)

	msg = BudgetAlert(d("1200"), d("1000")).Message(cur)
	assert.Equal(t, "You have exceeded your budget! Spent: $1,200.00, Budget: $1,000.00", msg)

	assert.Equal(t, "", BudgetAlert(d("1"), d("1000")).Message(cur))
	assert.Equal(t, "exceeded", AlertWarning.String())
}

func TestCurrencyFormat(t *testing.T) {
	cur := NewCurrency("")
	assert.Equal(t, "₦0.00", cur.Format(decimal.Zero))
	assert.Equal(t, "₦1,200.50", cur.Format(d("1200.5")))
	assert.Equal(t, "₦1,234,567.89", cur.Format(d("1234567.891")))
	assert.Equal(t, "-₦200.00", cur.Format(d("-200")))
	assert.Equal(t, "₦999.99", cur.Format(d("999.99")))
	assert.Equal(t, "₦123,456,789,012,345,678.91", cur.Format(d("123456789012345678.91")))
	assert.Equal(t, "-12,345.60", Grouped(d("-12345.6")))
}

func TestRenderText(t *testing.T) {
	doc := &expense.Document{Expenses: []expense.Expense{
		rec("100", "A", "first", "2024-01-03 10:00:00"),
		rec("50", "B", "second", "2024-01-01 10:00:00"),
		rec("25", "A", "third", "2024-01-02 10:00:00"),
		rec("50", "C", "fourth", "2024-01-02 10:00:00"),
	}}
	now := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.Local)

	got := RenderText(doc, now, NewCurrency(""))
	want := strings.Join([]string{
		"Expense Report",
		"Generated: 2024-02-01 09:00:00",
		"",
		"Total Spent: ₦225.00",
		"",
		"By Category:",
		" - A: ₦125.00",
		" - B: ₦50.00",
		" - C: ₦50.00",
		"",
		"Details:",
		"2024-01-01 10:00:00 | B | second | ₦50.00",
		"2024-01-02 10:00:00 | A | third | ₦25.00",
		"2024-01-02 10:00:00 | C | fourth | ₦50.00",
		"2024-01-03 10:00:00 | A | first | ₦100.00",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderTextEmpty(t *testing.T) {
	got := RenderText(expense.NewDocument(), time.Now(), NewCurrency(""))
	assert.Contains(t, got, "Total Spent: ₦0.00")
	assert.True(t, strings.HasSuffix(got, "Details:\n"))
}

func TestCSV(t *testing.T) {
	doc := &expense.Document{Expenses: []expense.Expense{
		rec("1200.5", "Food", "Lunch, with friends", "2024-01-01 12:00:00"),
		rec("3", "Transport", "Bus", "2024-01-02 08:00:00"),
	}}

	rows := CSVRows(doc)
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, []string{"date", "category", "description", "amount"}, rows[0])
	assert.Equal(t, []string{"2024-01-01 12:00:00", "Food", "Lunch, with friends", "1200.50"}, rows[1])

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, doc))
	assert.Equal(t, "date,category,description,amount\n"+
		"2024-01-01 12:00:00,Food,\"Lunch, with friends\",1200.50\n"+
		"2024-01-02 08:00:00,Transport,Bus,3.00\n", buf.String())

	buf.Reset()
	assert.NoError(t, WriteCSV(&buf, expense.NewDocument()))
	assert.Equal(t, "date,category,description,amount\n", buf.String())
}

func TestTopCategories(t *testing.T) {
	doc := &expense.Document{Expenses: []expense.Expense{
		rec("10", "A", "", "2024-01-01 00:00:00"),
		rec("30", "B", "", "2024-01-01 00:00:00"),
		rec("20", "C", "", "2024-01-01 00:00:00"),
		rec("30", "D", "", "2024-01-01 00:00:00"),
	}}

	top := TopCategories(doc, 2)
	assert.Equal(t, 2, len(top))
	assert.Equal(t, "B", top[0].Category)
	assert.Equal(t, "D", top[1].Category)

	assert.Equal(t, 4, len(TopCategories(doc, 0)))
	assert.Equal(t, 4, len(TopCategories(doc, 10)))
}

func TestMonthlySeries(t *testing.T) {
	doc := &expense.Document{Expenses: []expense.Expense{
		rec("10", "A", "x", "2024-06-10 00:00:00"),
	}}
	series := MonthlySeries(doc, DefaultMonths, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.Local))
	assert.Equal(t, 12, len(series))
	assert.Equal(t, "2024-06", series[11].Month)
	assert.Equal(t, "10.00", series[11].Total.StringFixed(2))
}

func TestRenderTable(t *testing.T) {
	records := []expense.Expense{
		rec("5", "Food", "Jollof rice and plantain", "2024-01-01 12:00:00"),
		rec("1200", "Bills", "Power", "2024-01-02 12:00:00"),
	}

	got := RenderTable(records, NewCurrency(""), 0)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "Date"))
	assert.True(t, strings.HasSuffix(lines[2], "₦5.00"))
	assert.True(t, strings.HasSuffix(lines[3], "₦1,200.00"))

	narrow := RenderTable(records, NewCurrency(""), 50)
	assert.Contains(t, narrow, "…")
	assert.NotContains(t, narrow, "plantain")
}
