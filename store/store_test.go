package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
)

func sampleDocument() *expense.Document {
	return &expense.Document{
		Expenses: []expense.Expense{
			{ID: uuid.New(), Amount: decimal.RequireFromString("1200.50"), Category: "Food", Description: "lunch", Date: "2025-01-05 12:30:00"},
			{ID: uuid.New(), Amount: decimal.RequireFromString("45"), Category: "Transport", Description: "bus", Date: "2025-01-06 08:00:00"},
			{ID: uuid.New(), Amount: decimal.RequireFromString("0.99"), Category: "Food", Description: "gum", Date: "not a date"},
		},
		Budget: decimal.RequireFromString("2500"),
	}
}

func assertSameDocument(t *testing.T, want, got *expense.Document) {
	t.Helper()
	assert.Equal(t, want.Budget.StringFixed(2), got.Budget.StringFixed(2))
	assert.Equal(t, len(want.Expenses), len(got.Expenses))
	for i := range want.Expenses {
		w, g := want.Expenses[i], got.Expenses[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Amount.StringFixed(2), g.Amount.StringFixed(2))
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Description, g.Description)
		assert.Equal(t, w.Date, g.Date)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "expenses.json"))

	doc := sampleDocument()
	assert.NoError(t, s.Save(ctx, doc))

	assertSameDocument(t, doc, s.Load(ctx))
}

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingFile", func(t *testing.T) {
		doc := New(filepath.Join(t.TempDir(), "absent.json")).Load(ctx)
		assert.Equal(t, 0, len(doc.Expenses))
		assert.True(t, doc.Budget.IsZero())
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "expenses.json")
		assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		var logs bytes.Buffer
		doc := New(path, WithLogger(zerolog.New(&logs))).Load(ctx)
		assert.Equal(t, 0, len(doc.Expenses))
		assert.True(t, doc.Expenses != nil)
		assert.True(t, doc.Budget.IsZero())
		assert.Contains(t, logs.String(), "not a valid expense document")
	})

	t.Run("WrongShape", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "expenses.json")
		assert.NoError(t, os.WriteFile(path, []byte(`[1, 2, 3]`), 0o600))

		doc := New(path).Load(ctx)
		assert.Equal(t, 0, len(doc.Expenses))
	})

	t.Run("PathIsDirectory", func(t *testing.T) {
		doc := New(t.TempDir()).Load(ctx)
		assert.Equal(t, 0, len(doc.Expenses))
	})
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	legacy := `{
  "expenses": [
    {"amount": 10.0, "category": "Food", "description": "rice", "date": "2024-06-01 10:00:00"},
    {"amount": 20.0, "category": "Bills", "description": "water", "date": "2024-06-02 10:00:00"}
  ],
  "budget": 100.0
}`
	assert.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	doc := New(path).Load(context.Background())
	assert.Equal(t, 2, len(doc.Expenses))
	assert.NotEqual(t, uuid.Nil, doc.Expenses[0].ID)
	assert.NotEqual(t, doc.Expenses[0].ID, doc.Expenses[1].ID)
	assert.Equal(t, "rice", doc.Expenses[0].Description)
	assert.Equal(t, "100.00", doc.Budget.StringFixed(2))
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := New(filepath.Join(dir, "nested", "expenses.json"))

	assert.NoError(t, s.Save(ctx, sampleDocument()))
	assert.NoError(t, s.Save(ctx, expense.NewDocument()))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "expenses.json", entries[0].Name())

	doc := s.Load(ctx)
	assert.Equal(t, 0, len(doc.Expenses))
}

func TestSaveFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks are not enforced")
	}

	dir := t.TempDir()
	assert.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := New(filepath.Join(dir, "expenses.json")).Save(context.Background(), sampleDocument())

	var writeErr *WriteError
	assert.True(t, errors.As(err, &writeErr))
	assert.Equal(t, filepath.Join(dir, "expenses.json"), writeErr.Path)
}
