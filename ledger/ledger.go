// Package ledger holds the expense document in memory and applies changes to
// it.
//
// Every mutation is written through the configured Persister before it returns.
// When that write fails the in-memory document is restored to its previous
// state, so memory and disk never disagree after an error.
//
// Example usage:
//
//	s := store.New("expenses.json")
//	l := ledger.Open(ctx, s)
//
//	e, err := l.Add(ctx, expense.Input{Amount: "1,200.50", Category: "food", Description: "lunch"})
//	if err != nil {
//	    // expense.ErrInvalidAmount, *expense.MissingFieldError or *store.WriteError
//	}
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
)

// Persister saves the whole document.
type Persister interface {
	Save(ctx context.Context, doc *expense.Document) error
}

// Source loads the whole document.
type Source interface {
	Load(ctx context.Context) *expense.Document
}

// Ledger is the in-memory expense collection. It is safe for concurrent use.
type Ledger struct {
	mu     sync.RWMutex
	doc    *expense.Document
	store  Persister
	source Source
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithStore persists every mutation through p.
func WithStore(p Persister) Option {
	return func(l *Ledger) {
		l.store = p
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLogger sets the ledger logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New wraps doc. A nil doc starts an empty ledger.
func New(doc *expense.Document, opts ...Option) *Ledger {
	if doc == nil {
		doc = expense.NewDocument()
	}

	l := &Ledger{
		doc:    doc,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With().Str("component", "ledger").Logger()

	return l
}

// Store is what Open needs: something that can both load and save.
type Store interface {
	Source
	Persister
}

// Open loads the document from s and persists later mutations to it.
func Open(ctx context.Context, s Store, opts ...Option) *Ledger {
	l := New(s.Load(ctx), append([]Option{WithStore(s)}, opts...)...)
	l.source = s
	return l
}

// Reload replaces the in-memory document with the one on disk. It does
// nothing for a ledger that was not opened from a store.
func (l *Ledger) Reload(ctx context.Context) {
	if l.source == nil {
		return
	}
	doc := l.source.Load(ctx)

	l.mu.Lock()
	l.doc = doc
	l.mu.Unlock()

	l.logger.Debug().Int("expenses", len(doc.Expenses)).Msg("reloaded ledger")
}

// Now returns the ledger clock reading.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Document returns a copy of the current document.
func (l *Ledger) Document() *expense.Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc.Clone()
}

// Expenses returns a copy of all expenses in insertion order.
func (l *Ledger) Expenses() []expense.Expense {
	return l.Document().Expenses
}

// Budget returns the ledger budget.
func (l *Ledger) Budget() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc.Budget
}

// Len returns the number of expenses.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.doc.Expenses)
}

// Query returns matching expenses, most recent first.
func (l *Ledger) Query(q Query) []expense.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Filter(l.doc.Expenses, q)
}

// Categories returns the presets plus every category in use.
func (l *Ledger) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return expense.Categories(l.doc.Expenses)
}

// Get returns the expense with the given id.
func (l *Ledger) Get(id uuid.UUID) (expense.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.doc.IndexOf(id)
	if i < 0 {
		return expense.Expense{}, fmt.Errorf("%w: %s", expense.ErrNotFound, id)
	}
	return l.doc.Expenses[i], nil
}

// Resolve finds an expense by full id or by a unique id prefix.
func (l *Ledger) Resolve(ref string) (expense.Expense, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return expense.Expense{}, fmt.Errorf("%w: empty reference", expense.ErrNotFound)
	}

	if id, err := uuid.Parse(ref); err == nil {
		return l.Get(id)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var found []expense.Expense
	for _, e := range l.doc.Expenses {
		if strings.HasPrefix(e.ID.String(), ref) {
			found = append(found, e)
		}
	}

	switch len(found) {
	case 0:
		return expense.Expense{}, fmt.Errorf("%w: no expense with id %q", expense.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return expense.Expense{}, fmt.Errorf("%w: id prefix %q matches %d expenses", expense.ErrNotFound, ref, len(found))
	}
}

// FindMatch locates the first expense with the given displayed fields.
func (l *Ledger) FindMatch(date, category, description string, amount decimal.Decimal, tolerance float64) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return FindMatch(l.doc.Expenses, date, category, description, amount, tolerance)
}

// At returns the expense at index.
func (l *Ledger) At(index int) (expense.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.doc.Expenses) {
		return expense.Expense{}, &expense.IndexError{Index: index, Len: len(l.doc.Expenses)}
	}
	return l.doc.Expenses[index], nil
}

// Add validates in, appends the new expense and persists the ledger.
func (l *Ledger) Add(ctx context.Context, in expense.Input) (expense.Expense, error) {
	e, err := expense.NewExpense(in, l.now())
	if err != nil {
		return expense.Expense{}, err
	}

	err = l.commit(ctx, "add", func(doc *expense.Document) error {
		doc.Expenses = append(doc.Expenses, e)
		return nil
	})
	if err != nil {
		return expense.Expense{}, err
	}

	l.logger.Info().Str("id", e.ID.String()).Str("category", e.Category).Str("amount", e.Amount.StringFixed(2)).Msg("expense added")
	return e, nil
}

// Update replaces the fields of the expense with the given id. The record
// keeps its id and is stamped with the time of the edit.
func (l *Ledger) Update(ctx context.Context, id uuid.UUID, in expense.Input) (expense.Expense, error) {
	amount, category, description, err := in.Normalize()
	if err != nil {
		return expense.Expense{}, err
	}

	updated := expense.Expense{
		ID:          id,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        expense.FormatDate(l.now()),
	}

	err = l.commit(ctx, "update", func(doc *expense.Document) error {
		i := doc.IndexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", expense.ErrNotFound, id)
		}
		doc.Expenses[i] = updated
		return nil
	})
	if err != nil {
		return expense.Expense{}, err
	}

	l.logger.Info().Str("id", id.String()).Msg("expense updated")
	return updated, nil
}

// Delete removes the expense with the given id.
func (l *Ledger) Delete(ctx context.Context, id uuid.UUID) (expense.Expense, error) {
	var removed expense.Expense
	err := l.commit(ctx, "delete", func(doc *expense.Document) error {
		i := doc.IndexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", expense.ErrNotFound, id)
		}
		removed = doc.Expenses[i]
		doc.Expenses = append(doc.Expenses[:i], doc.Expenses[i+1:]...)
		return nil
	})
	if err != nil {
		return expense.Expense{}, err
	}

	l.logger.Info().Str("id", id.String()).Msg("expense deleted")
	return removed, nil
}

// ReplaceAt overwrites the expense at index. The record goes through the
// same validation as new input. A record without an id keeps the id of the
// record it replaces.
func (l *Ledger) ReplaceAt(ctx context.Context, index int, e expense.Expense) error {
	return l.commit(ctx, "replace", func(doc *expense.Document) error {
		if index < 0 || index >= len(doc.Expenses) {
			return &expense.IndexError{Index: index, Len: len(doc.Expenses)}
		}
		normalized, err := e.Normalized()
		if err != nil {
			return err
		}
		if normalized.ID == uuid.Nil {
			normalized.ID = doc.Expenses[index].ID
		}
		doc.Expenses[index] = normalized
		return nil
	})
}

// RemoveAt removes the expense at index, keeping the order of the rest.
func (l *Ledger) RemoveAt(ctx context.Context, index int) (expense.Expense, error) {
	var removed expense.Expense
	err := l.commit(ctx, "remove", func(doc *expense.Document) error {
		if index < 0 || index >= len(doc.Expenses) {
			return &expense.IndexError{Index: index, Len: len(doc.Expenses)}
		}
		removed = doc.Expenses[index]
		doc.Expenses = append(doc.Expenses[:index], doc.Expenses[index+1:]...)
		return nil
	})
	return removed, err
}

// SetBudget parses and stores a new budget.
func (l *Ledger) SetBudget(ctx context.Context, raw string) (decimal.Decimal, error) {
	budget, err := expense.ParseBudget(raw)
	if err != nil {
		return decimal.Zero, err
	}

	err = l.commit(ctx, "budget", func(doc *expense.Document) error {
		doc.Budget = budget
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	l.logger.Info().Str("budget", budget.StringFixed(2)).Msg("budget updated")
	return budget, nil
}

// Clear resets the ledger to the empty document.
func (l *Ledger) Clear(ctx context.Context) error {
	err := l.commit(ctx, "clear", func(doc *expense.Document) error {
		*doc = *expense.NewDocument()
		return nil
	})
	if err == nil {
		l.logger.Info().Msg("ledger cleared")
	}
	return err
}

// commit applies mutate to a copy of the document and, once persisted,
// installs the copy. On any error the current document is left untouched.
func (l *Ledger) commit(ctx context.Context, op string, mutate func(doc *expense.Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.doc.Clone()
	if err := mutate(next); err != nil {
		return err
	}

	if l.store != nil {
		if err := l.store.Save(ctx, next); err != nil {
			l.logger.Error().Err(err).Str("operation", op).Msg("save failed, change discarded")
			return err
		}
	}

	l.doc = next
	return nil
}
