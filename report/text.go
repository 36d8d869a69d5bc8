package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
)

// Title heads the text report.
const Title = "Expense Report"

// SortedCategories returns category totals largest first. Equal totals keep
// the order in which the categories first appear.
func SortedCategories(records []expense.Expense) []ledger.CategoryTotal {
	totals := ledger.GroupByCategory(records)
	slices.SortStableFunc(totals, func(a, b ledger.CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})
	return totals
}

// ByDate returns a copy of records in ascending date order. Records with the
// same date keep their stored order.
func ByDate(records []expense.Expense) []expense.Expense {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b expense.Expense) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}

// RenderText renders the plain text report of doc, generated at now.
func RenderText(doc *expense.Document, now time.Time, cur Currency) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", expense.FormatDate(now))
	fmt.Fprintf(&b, "Total Spent: %s\n\n", cur.Format(ledger.Sum(doc.Expenses)))

	b.WriteString("By Category:\n")
	for _, ct := range SortedCategories(doc.Expenses) {
		fmt.Fprintf(&b, " - %s: %s\n", ct.Category, cur.Format(ct.Total))
	}

	b.WriteString("\nDetails:\n")
	for _, e := range ByDate(doc.Expenses) {
		fmt.Fprintf(&b, "%s | %s | %s | %s\n", e.Date, e.Category, e.Description, cur.Format(e.Amount))
	}

	return b.String()
}

var tableHeader = []string{"Date", "Category", "Description", "Amount"}

// RenderTable renders records as an aligned plain text table. When width is
// positive the description column is truncated so that lines fit.
func RenderTable(records []expense.Expense, cur Currency, width int) string {
	rows := make([][]string, 0, len(records))
	for _, e := range records {
		rows = append(rows, []string{e.Date, e.Category, e.Description, cur.Format(e.Amount)})
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	const gap = 2
	if width > 0 {
		used := gap * (len(widths) - 1)
		for i, w := range widths {
			if i != 2 {
				used += w
			}
		}
		// Keep at least the header readable.
		widths[2] = max(min(widths[2], width-used), runewidth.StringWidth(tableHeader[2]))
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			cell = runewidth.Truncate(cell, widths[i], "…")
			if i == len(cells)-1 {
				b.WriteString(runewidth.FillLeft(cell, widths[i]))
			} else {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		b.WriteString("\n")
	}

	writeRow(tableHeader)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeRow(rule)
	for _, row := range rows {
		writeRow(row)
	}

	return b.String()
}
