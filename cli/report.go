package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/telemetry"
)

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

type ReportCmd struct {
	Output string `help:"Write the report to this file instead of stdout." short:"o" type:"path"`
}

func (cmd *ReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "report")
	if err != nil {
		return err
	}
	defer s.close()

	timer := telemetry.StartTimer(s.ctx, "report.render")
	text := report.RenderText(s.ledger.Document(), now(), s.currency)
	timer.End()

	if err := writeOutput(ctx.Stdout, cmd.Output, []byte(text)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if cmd.Output != "" && cmd.Output != "-" {
		printSuccess(ctx.Stdout, fmt.Sprintf("Report exported to %s", pathStyle.Render(cmd.Output)))
	}
	return nil
}

type ExportCmd struct {
	Output string `help:"Write the CSV to this file instead of stdout." short:"o" type:"path"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "export")
	if err != nil {
		return err
	}
	defer s.close()

	timer := telemetry.StartTimer(s.ctx, "report.csv")
	var buf bytes.Buffer
	err = report.WriteCSV(&buf, s.ledger.Document())
	timer.End()
	if err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	if err := writeOutput(ctx.Stdout, cmd.Output, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if cmd.Output != "" && cmd.Output != "-" {
		printSuccess(ctx.Stdout, fmt.Sprintf("CSV exported to %s", pathStyle.Render(cmd.Output)))
	}
	return nil
}

// barWidth is the length of the longest bar in the months chart.
const barWidth = 30

type MonthsCmd struct {
	Count int `help:"Number of months to show, ending with the current one." default:"12"`
}

func (cmd *MonthsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Count > report.MaxMonths {
		return fail(ctx.Stderr, fmt.Errorf("count must be at most %d", report.MaxMonths))
	}

	s, err := globals.open(ctx, "months")
	if err != nil {
		return err
	}
	defer s.close()

	series := report.MonthlySeries(s.ledger.Document(), cmd.Count, now())
	if len(series) == 0 {
		printInfof(ctx.Stdout, "No months to show")
		return nil
	}

	peak := decimal.Zero
	for _, m := range series {
		peak = decimal.Max(peak, m.Total)
	}

	amounts := make([]string, len(series))
	amountWidth := 0
	for i, m := range series {
		amounts[i] = s.currency.Format(m.Total)
		amountWidth = max(amountWidth, runewidth.StringWidth(amounts[i]))
	}

	_, _ = fmt.Fprintln(ctx.Stdout, s.styles.Title.Render("Monthly Spending"))
	for i, m := range series {
		// Refunds stored as negative amounts draw no bar.
		n := 0
		if peak.IsPositive() && m.Total.IsPositive() {
			n = int(m.Total.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		}
		if n == 0 && m.Total.IsPositive() {
			n = 1
		}
		bar := s.styles.Bar.Render(strings.Repeat("█", n))
		_, _ = fmt.Fprintf(ctx.Stdout, "%s  %s  %s\n",
			m.Month,
			runewidth.FillLeft(amounts[i], amountWidth),
			bar,
		)
	}
	return nil
}

type CategoriesCmd struct {
	Top int `help:"Only show the N largest categories (0 for all)." default:"0"`
}

func (cmd *CategoriesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "categories")
	if err != nil {
		return err
	}
	defer s.close()

	doc := s.ledger.Document()
	totals := report.TopCategories(doc, cmd.Top)

	if len(totals) == 0 {
		printInfof(ctx.Stdout, "No expenses yet")
	} else {
		nameWidth := 0
		for _, ct := range totals {
			nameWidth = max(nameWidth, runewidth.StringWidth(ct.Category))
		}
		for _, ct := range totals {
			_, _ = fmt.Fprintf(ctx.Stdout, "%s  %s\n",
				s.styles.Label.Render(runewidth.FillRight(ct.Category, nameWidth)),
				s.currency.Format(ct.Total),
			)
		}
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "\n%s %s\n",
		s.styles.Muted.Render("Available:"),
		strings.Join(expense.Categories(doc.Expenses), ", "),
	)
	return nil
}
