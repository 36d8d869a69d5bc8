package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
)

// Selector identifies one expense, either by id or by the four fields shown
// in listings.
type Selector struct {
	Ref              string `arg:"" optional:"" help:"Expense id or unique id prefix."`
	Date             string `help:"Date of the expense (YYYY-MM-DD HH:MM:SS)." group:"Match"`
	MatchCategory    string `help:"Category of the expense." group:"Match"`
	MatchDescription string `help:"Description of the expense." group:"Match"`
	MatchAmount      string `help:"Amount of the expense." group:"Match"`
}

var errNoSelector = errors.New("an expense id or --date with --match-category, --match-description and --match-amount is required")

func (sel Selector) resolve(l *ledger.Ledger) (expense.Expense, error) {
	if sel.Ref != "" {
		return l.Resolve(sel.Ref)
	}
	if sel.Date == "" {
		return expense.Expense{}, errNoSelector
	}

	amount, err := expense.ParseAmount(sel.MatchAmount)
	if err != nil {
		return expense.Expense{}, err
	}

	i, ok := l.FindMatch(sel.Date, sel.MatchCategory, sel.MatchDescription, amount, ledger.DefaultTolerance)
	if !ok {
		return expense.Expense{}, fmt.Errorf("%w: nothing recorded at %s matches", expense.ErrNotFound, sel.Date)
	}
	return l.At(i)
}

type EditCmd struct {
	Selector `embed:""`

	Amount      string `help:"New amount." short:"a"`
	Category    string `help:"New category." short:"c"`
	Description string `help:"New description." short:"d"`
}

func (cmd *EditCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "edit")
	if err != nil {
		return err
	}
	defer s.close()

	current, err := cmd.resolve(s.ledger)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	in := expense.Input{
		Amount:      current.Amount.StringFixed(2),
		Category:    current.Category,
		Description: current.Description,
	}
	changed := false
	if cmd.Amount != "" {
		in.Amount, changed = cmd.Amount, true
	}
	if cmd.Category != "" {
		in.Category, changed = cmd.Category, true
	}
	if cmd.Description != "" {
		in.Description, changed = cmd.Description, true
	}

	if !changed {
		if !isTerminal() {
			return fail(ctx.Stderr, errors.New("nothing to change: pass --amount, --category or --description"))
		}
		if err := askExpense(&in, s.ledger.Categories(), "Edit expense"); err != nil {
			return err
		}
	}

	updated, err := s.ledger.Update(s.ctx, current.ID, in)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Updated %s %s: %s (%s)",
		updated.Category, s.currency.Format(updated.Amount), updated.Description, updated.ShortID()))
	printAlert(ctx.Stdout, report.BudgetAlert(ledger.Sum(s.ledger.Expenses()), s.ledger.Budget()), s.currency, false)

	return nil
}

type DeleteCmd struct {
	Selector `embed:""`

	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (cmd *DeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "delete")
	if err != nil {
		return err
	}
	defer s.close()

	target, err := cmd.resolve(s.ledger)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("Delete %s %s: %s from %s?",
			target.Category, s.currency.Format(target.Amount), target.Description, target.Date))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Nothing deleted (use --yes to skip confirmation)")
			return nil
		}
	}

	if _, err := s.ledger.Delete(s.ctx, target.ID); err != nil {
		return fail(ctx.Stderr, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted %s %s: %s", target.Category, s.currency.Format(target.Amount), target.Description))
	return nil
}
