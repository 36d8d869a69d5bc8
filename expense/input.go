package expense

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Input holds the raw text a user typed for a new or edited expense.
type Input struct {
	Amount      string
	Category    string
	Description string
}

// plainAmount matches digits with an optional fraction. Exponent notation is
// rejected.
var plainAmount = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)

// ParseAmount parses user supplied money text. Thousands separators are
// accepted, the result is rounded to cents and negative values are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !plainAmount.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	return d.Round(2), nil
}

// ParseBudget parses a budget amount with the same rules as ParseAmount.
func ParseBudget(s string) (decimal.Decimal, error) {
	return ParseAmount(s)
}

// NormalizeCategory trims, collapses inner whitespace and title-cases a
// category name so "fast  food" and "Fast Food" end up identical.
func NormalizeCategory(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}

// Normalize validates the input and returns its parsed parts.
func (in Input) Normalize() (amount decimal.Decimal, category, description string, err error) {
	amount, err = ParseAmount(in.Amount)
	if err != nil {
		return decimal.Zero, "", "", err
	}

	category = NormalizeCategory(in.Category)
	if category == "" {
		return decimal.Zero, "", "", &MissingFieldError{Field: "category"}
	}

	description = strings.TrimSpace(in.Description)
	if description == "" {
		return decimal.Zero, "", "", &MissingFieldError{Field: "description"}
	}

	return amount, category, description, nil
}

// NewExpense validates in and builds a record stamped with now and a fresh id.
func NewExpense(in Input, now time.Time) (Expense, error) {
	amount, category, description, err := in.Normalize()
	if err != nil {
		return Expense{}, err
	}

	return Expense{
		ID:          uuid.New(),
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        FormatDate(now),
	}, nil
}

// Normalized applies the entry rules to an already built record: the amount
// must be non-negative and is rounded to cents, the category is title-cased
// and category and description must not be empty. The id and date are kept.
func (e Expense) Normalized() (Expense, error) {
	if e.Amount.IsNegative() {
		return Expense{}, ErrInvalidAmount
	}
	e.Amount = e.Amount.Round(2)

	e.Category = NormalizeCategory(e.Category)
	if e.Category == "" {
		return Expense{}, &MissingFieldError{Field: "category"}
	}

	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return Expense{}, &MissingFieldError{Field: "description"}
	}

	return e, nil
}

// FormatDate formats t with DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
