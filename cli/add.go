package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
)

type AddCmd struct {
	Amount      string `help:"Amount spent, thousands separators allowed (e.g. 1,200.50)." short:"a"`
	Category    string `help:"Category, title-cased on save." short:"c"`
	Description string `help:"What the money was spent on." short:"d"`
}

func (cmd *AddCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "add")
	if err != nil {
		return err
	}
	defer s.close()

	in := expense.Input{Amount: cmd.Amount, Category: cmd.Category, Description: cmd.Description}
	if incomplete(in) && isTerminal() {
		if err := askExpense(&in, s.ledger.Categories(), "Add expense"); err != nil {
			return err
		}
	}

	e, err := s.ledger.Add(s.ctx, in)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Added %s %s: %s (%s)",
		e.Category, s.currency.Format(e.Amount), e.Description, e.ShortID()))
	printAlert(ctx.Stdout, report.BudgetAlert(ledger.Sum(s.ledger.Expenses()), s.ledger.Budget()), s.currency, false)

	return nil
}

func incomplete(in expense.Input) bool {
	return strings.TrimSpace(in.Amount) == "" ||
		strings.TrimSpace(in.Category) == "" ||
		strings.TrimSpace(in.Description) == ""
}

const customCategory = "Custom…"

// askExpense asks for the fields of in through a form prefilled with its
// current values.
func askExpense(in *expense.Input, categories []string, title string) error {
	choice := expense.NormalizeCategory(in.Category)
	known := false
	for _, c := range categories {
		if c == choice {
			known = true
			break
		}
	}

	custom := ""
	if !known && choice != "" {
		custom = choice
		choice = customCategory
	}

	options := huh.NewOptions(append(categories, customCategory)...)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("1,200.50").
				Value(&in.Amount).
				Validate(func(s string) error {
					_, err := expense.ParseAmount(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&choice),
			huh.NewInput().
				Title("Description").
				Value(&in.Description).
				Validate(required("description")),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().
				Title("New category").
				Value(&custom).
				Validate(required("category")),
		).WithHideFunc(func() bool { return choice != customCategory }),
	)

	if err := form.WithShowHelp(true).Run(); err != nil {
		return fmt.Errorf("failed to read expense: %w", err)
	}

	if choice == customCategory {
		in.Category = custom
	} else {
		in.Category = choice
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &expense.MissingFieldError{Field: field}
		}
		return nil
	}
}
