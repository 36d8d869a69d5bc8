package cli

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/theme"
)

// DefaultListLimit caps how many rows list and dashboard show.
const DefaultListLimit = 200

type ListCmd struct {
	Search   string `help:"Only show expenses whose description or category contains this text." short:"s"`
	Category string `help:"Only show expenses in this category." short:"c"`
	Limit    int    `help:"Maximum number of rows (0 for all)." default:"200"`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "list")
	if err != nil {
		return err
	}
	defer s.close()

	matches := s.ledger.Query(ledger.Query{Search: cmd.Search, Category: cmd.Category})
	if len(matches) == 0 {
		printInfof(ctx.Stdout, "No expenses found")
		return nil
	}

	shown := limit(matches, cmd.Limit)
	writeExpenses(ctx.Stdout, s.styles, shown, s.currency)

	if len(shown) < len(matches) {
		printInfof(ctx.Stdout, "Showing %d of %d expenses", len(shown), len(matches))
	}
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", s.styles.Label.Render("Total:"), s.styles.Amount.Render(s.currency.Format(ledger.Sum(matches))))

	return nil
}

func limit(records []expense.Expense, n int) []expense.Expense {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

// writeExpenses renders records as a styled table on terminals and as an
// aligned plain text table otherwise.
func writeExpenses(w io.Writer, styles *theme.Styles, records []expense.Expense, cur report.Currency) {
	if !isTerminalWriter(w) {
		_, _ = io.WriteString(w, report.RenderTable(records, cur, 0))
		return
	}

	rows := make([][]string, 0, len(records))
	for _, e := range records {
		rows = append(rows, []string{e.ShortID(), e.Date, e.Category, e.Description, cur.Format(e.Amount)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Label).
		Headers("ID", "Date", "Category", "Description", "Amount").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				return styles.Header
			case row%2 == 0:
				style = styles.CellAlt
			default:
				style = styles.Cell
			}
			if col == 4 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	if width := terminalWidth(w); width > 0 {
		t = t.Width(width)
	}

	_, _ = fmt.Fprintln(w, t.Render())
}
