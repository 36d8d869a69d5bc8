package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
)

type BudgetCmd struct {
	Show BudgetShowCmd `cmd:"" default:"1" help:"Show the budget and what is left of it."`
	Set  BudgetSetCmd  `cmd:"" help:"Set the budget."`
}

type BudgetShowCmd struct{}

func (cmd *BudgetShowCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "budget")
	if err != nil {
		return err
	}
	defer s.close()

	summary := report.Summarize(s.ledger.Document())
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", s.styles.Label.Render("Budget:   "), s.currency.Format(summary.Budget))
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", s.styles.Label.Render("Spent:    "), s.currency.Format(summary.Total))
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", s.styles.Label.Render("Remaining:"), summary.RemainingLabel(s.currency))
	printAlert(ctx.Stdout, report.BudgetAlert(summary.Total, summary.Budget), s.currency, false)

	return nil
}

type BudgetSetCmd struct {
	Amount string `arg:"" help:"New budget, thousands separators allowed (0 removes it)."`
}

func (cmd *BudgetSetCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "budget")
	if err != nil {
		return err
	}
	defer s.close()

	budget, err := s.ledger.SetBudget(s.ctx, cmd.Amount)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Budget set to %s", s.currency.Format(budget)))
	printAlert(ctx.Stdout, report.BudgetAlert(ledger.Sum(s.ledger.Expenses()), budget), s.currency, false)
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (cmd *ClearCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "clear")
	if err != nil {
		return err
	}
	defer s.close()

	if !cmd.Yes {
		if !isTerminal() {
			return fail(ctx.Stderr, errors.New("refusing to clear without confirmation, pass --yes"))
		}
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("Delete all %d expenses and reset the budget?", s.ledger.Len()))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Nothing cleared")
			return nil
		}
	}

	if err := s.ledger.Clear(s.ctx); err != nil {
		return fail(ctx.Stderr, err)
	}

	printSuccess(ctx.Stdout, "All data cleared")
	return nil
}
