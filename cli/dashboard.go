package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/watch"
)

type DashboardCmd struct {
	Search   string `help:"Only show expenses whose description or category contains this text." short:"s"`
	Category string `help:"Only show expenses in this category." short:"c"`
	Limit    int    `help:"Maximum number of recent expenses (0 for all)." default:"200"`
	Watch    bool   `help:"Redraw whenever the data file changes." short:"w"`
}

func (cmd *DashboardCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "dashboard")
	if err != nil {
		return err
	}
	defer s.close()

	cmd.render(ctx.Stdout, s)

	if !cmd.Watch {
		return nil
	}

	redraw := make(chan struct{}, 1)
	_, err = watch.Start(s.ctx, s.store.Path(), func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}, watch.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.store.Path(), err)
	}

	printInfof(ctx.Stdout, "Watching %s, press Ctrl+C to stop", pathStyle.Render(s.store.Path()))

	for {
		select {
		case <-s.ctx.Done():
			return nil
		case <-redraw:
			s.ledger.Reload(s.ctx)
			if isTerminalWriter(ctx.Stdout) {
				_, _ = io.WriteString(ctx.Stdout, "\033[H\033[2J")
			}
			cmd.render(ctx.Stdout, s)
		}
	}
}

func (cmd *DashboardCmd) render(w io.Writer, s *session) {
	doc := s.ledger.Document()
	summary := report.Summarize(doc)

	card := func(label, value string) string {
		return s.styles.Card.Render(s.styles.Label.Render(label) + "\n" + s.styles.Amount.Render(value))
	}

	remaining := summary.RemainingLabel(s.currency)
	if summary.BudgetSet && summary.Remaining.IsNegative() {
		remaining = s.styles.Danger.Render(remaining)
	}

	_, _ = fmt.Fprintln(w, s.styles.Title.Render("Dashboard"))
	_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Spent", s.currency.Format(summary.Total)),
		card("Budget", s.currency.Format(summary.Budget)),
		card("Remaining", remaining),
	))

	printAlert(w, report.BudgetAlert(summary.Total, summary.Budget), s.currency, true)

	if top := report.TopCategories(doc, 5); len(top) > 0 {
		_, _ = fmt.Fprintln(w, s.styles.Title.Render("Quick Stats"))
		for _, ct := range top {
			_, _ = fmt.Fprintf(w, "  %s %s\n", s.styles.Label.Render(ct.Category+":"), s.currency.Format(ct.Total))
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, s.styles.Title.Render("Recent Expenses"))
	matches := ledger.Filter(doc.Expenses, ledger.Query{Search: cmd.Search, Category: cmd.Category})
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(w, s.styles.Muted.Render("  "+emptyMessage(cmd.Search, cmd.Category)))
		return
	}
	writeExpenses(w, s.styles, limit(matches, cmd.Limit), s.currency)
}

func emptyMessage(search, category string) string {
	if strings.TrimSpace(search) == "" && (category == "" || category == expense.AllCategories) {
		return "No expenses yet"
	}
	return "No expenses match the current filter"
}
