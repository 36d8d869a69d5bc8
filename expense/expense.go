// Package expense defines the expense record, the persisted ledger document and
// the rules that turn raw user input into valid records.
//
// Amounts are decimal values rounded to cents. Dates are kept as the text that
// was written at creation or edit time so that records survive round-trips
// through the data file even when that text is malformed.
package expense

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the timestamp format of Expense.Date.
const DateLayout = "2006-01-02 15:04:05"

// Expense is a single spending entry.
type Expense struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        string
}

// Time parses Date using DateLayout.
func (e Expense) Time() (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, time.Local)
}

// ShortID returns the first eight characters of the identifier, enough to
// select a record on the command line.
func (e Expense) ShortID() string {
	return e.ID.String()[:8]
}

type expenseJSON struct {
	ID          string      `json:"id,omitempty"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// MarshalJSON writes the amount as a JSON number with two fraction digits.
func (e Expense) MarshalJSON() ([]byte, error) {
	out := expenseJSON{
		Amount:      json.Number(e.Amount.StringFixed(2)),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
	if e.ID != uuid.Nil {
		out.ID = e.ID.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts amounts as numbers or numeric strings. A missing or
// unparsable id leaves ID as uuid.Nil.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var in expenseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	amount := decimal.Zero
	if in.Amount != "" {
		d, err := decimal.NewFromString(in.Amount.String())
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", in.Amount, err)
		}
		amount = d
	}

	id, err := uuid.Parse(in.ID)
	if err != nil {
		id = uuid.Nil
	}

	*e = Expense{
		ID:          id,
		Amount:      amount.Round(2),
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
	return nil
}

// Document is the persisted unit: every expense in insertion order plus a
// single budget for the whole ledger.
type Document struct {
	Expenses []Expense
	Budget   decimal.Decimal
}

// NewDocument returns the empty document used for missing or unreadable files.
func NewDocument() *Document {
	return &Document{
		Expenses: []Expense{},
		Budget:   decimal.Zero,
	}
}

// Clone returns a copy that shares no slice storage with d.
func (d *Document) Clone() *Document {
	expenses := make([]Expense, len(d.Expenses))
	copy(expenses, d.Expenses)
	return &Document{
		Expenses: expenses,
		Budget:   d.Budget,
	}
}

// IndexOf returns the position of the expense with the given id.
func (d *Document) IndexOf(id uuid.UUID) int {
	for i, e := range d.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

type documentJSON struct {
	Expenses []Expense  `json:"expenses"`
	Budget   json.Number `json:"budget"`
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	expenses := d.Expenses
	if expenses == nil {
		expenses = []Expense{}
	}
	return json.Marshal(documentJSON{
		Expenses: expenses,
		Budget:   json.Number(d.Budget.StringFixed(2)),
	})
}

// UnmarshalJSON implements json.Unmarshaler. A missing budget is zero and a
// missing expense list is empty.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	budget := decimal.Zero
	if in.Budget != "" {
		b, err := decimal.NewFromString(in.Budget.String())
		if err != nil {
			return fmt.Errorf("invalid budget %q: %w", in.Budget, err)
		}
		budget = b
	}

	if in.Expenses == nil {
		in.Expenses = []Expense{}
	}

	d.Expenses = in.Expenses
	d.Budget = budget.Round(2)
	return nil
}
