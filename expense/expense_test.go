package expense

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "12", want: "12.00"},
		{name: "fraction", input: "1200.5", want: "1200.50"},
		{name: "thousands separator", input: "1,200.50", want: "1200.50"},
		{name: "surrounding space", input: "  7.25 ", want: "7.25"},
		{name: "rounds to cents", input: "10.005", want: "10.01"},
		{name: "zero is allowed", input: "0", want: "0.00"},
		{name: "negative", input: "-5", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
		{name: "leading dot", input: ".5", want: "0.50"},
		{name: "trailing dot", input: "3.", wantErr: true},
		{name: "exponent", input: "1e3", wantErr: true},
		{name: "huge exponent", input: "1e99999999", wantErr: true},
		{name: "hex", input: "0x10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.IsError(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"food", "Food"},
		{"FOOD", "Food"},
		{"  fast   food ", "Fast Food"},
		{"eating out", "Eating Out"},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.input))
	}
}

func TestNewExpense(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

	t.Run("Valid", func(t *testing.T) {
		e, err := NewExpense(Input{Amount: "1200.5", Category: "food", Description: "lunch"}, now)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.Equal(t, "1200.50", e.Amount.StringFixed(2))
		assert.Equal(t, "Food", e.Category)
		assert.Equal(t, "lunch", e.Description)
		assert.Equal(t, "2025-03-14 09:26:53", e.Date)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		_, err := NewExpense(Input{Amount: "twelve", Category: "Food", Description: "lunch"}, now)
		assert.IsError(t, err, ErrInvalidAmount)
		assert.True(t, IsValidation(err))
	})

	t.Run("MissingCategory", func(t *testing.T) {
		_, err := NewExpense(Input{Amount: "1", Category: " ", Description: "lunch"}, now)
		var missing *MissingFieldError
		assert.True(t, errors.As(err, &missing))
		assert.Equal(t, "category", missing.Field)
		assert.True(t, IsValidation(err))
	})

	t.Run("MissingDescription", func(t *testing.T) {
		_, err := NewExpense(Input{Amount: "1", Category: "Food", Description: ""}, now)
		var missing *MissingFieldError
		assert.True(t, errors.As(err, &missing))
		assert.Equal(t, "description", missing.Field)
	})

	t.Run("UniqueIDs", func(t *testing.T) {
		in := Input{Amount: "1", Category: "Food", Description: "same"}
		a, err := NewExpense(in, now)
		assert.NoError(t, err)
		b, err := NewExpense(in, now)
		assert.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestExpenseTime(t *testing.T) {
	e := Expense{Date: "2024-11-02 18:00:00"}
	got, err := e.Time()
	assert.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.November, got.Month())

	_, err = Expense{Date: "yesterday"}.Time()
	assert.Error(t, err)
}

func TestDocumentJSON(t *testing.T) {
	t.Run("AmountsAreNumbers", func(t *testing.T) {
		doc := Document{
			Expenses: []Expense{{
				ID:          uuid.MustParse("5b7c3f0e-8a1d-4a55-9a3e-0f3d1b2c4d5e"),
				Amount:      decimal.RequireFromString("12.5"),
				Category:    "Food",
				Description: "bread",
				Date:        "2024-01-02 10:00:00",
			}},
			Budget: decimal.NewFromInt(1000),
		}

		data, err := json.Marshal(doc)
		assert.NoError(t, err)
		assert.Equal(t,
			`{"expenses":[{"id":"5b7c3f0e-8a1d-4a55-9a3e-0f3d1b2c4d5e","amount":12.50,"category":"Food","description":"bread","date":"2024-01-02 10:00:00"}],"budget":1000.00}`,
			string(data))
	})

	t.Run("LegacyRecordsWithoutIDs", func(t *testing.T) {
		var doc Document
		err := json.Unmarshal([]byte(`{"expenses":[{"amount":3.333,"category":"Bills","description":"power","date":"2024-01-02 10:00:00"}],"budget":0.0}`), &doc)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(doc.Expenses))
		assert.Equal(t, uuid.Nil, doc.Expenses[0].ID)
		assert.Equal(t, "3.33", doc.Expenses[0].Amount.StringFixed(2))
		assert.True(t, doc.Budget.IsZero())
	})

	t.Run("MissingKeys", func(t *testing.T) {
		var doc Document
		assert.NoError(t, json.Unmarshal([]byte(`{}`), &doc))
		assert.Equal(t, 0, len(doc.Expenses))
		assert.True(t, doc.Expenses != nil)
		assert.True(t, doc.Budget.IsZero())
	})

	t.Run("BadAmount", func(t *testing.T) {
		var doc Document
		err := json.Unmarshal([]byte(`{"expenses":[{"amount":"lots"}]}`), &doc)
		assert.Error(t, err)
	})
}

func TestDocumentClone(t *testing.T) {
	doc := NewDocument()
	doc.Expenses = append(doc.Expenses, Expense{ID: uuid.New(), Category: "Food"})

	clone := doc.Clone()
	clone.Expenses[0].Category = "Bills"
	clone.Expenses = append(clone.Expenses, Expense{ID: uuid.New()})

	assert.Equal(t, "Food", doc.Expenses[0].Category)
	assert.Equal(t, 1, len(doc.Expenses))
}

func TestCategories(t *testing.T) {
	expenses := []Expense{
		{Category: "Food"},
		{Category: "Rent"},
		{Category: "Gym"},
		{Category: "Rent"},
	}

	got := Categories(expenses)
	assert.Equal(t, []string{"Food", "Transport", "Bills", "Shopping", "Health", "Entertainment", "Other", "Rent", "Gym"}, got)

	// The seed list is never mutated.
	assert.Equal(t, 7, len(Presets))
}
