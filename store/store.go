// Package store persists the expense document as a single JSON file.
//
// Loading never fails: a missing, unreadable or malformed file yields the empty
// document so the application can always start. Saving rewrites the whole file
// through a temporary sibling and a rename, so readers never observe a
// partially written document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/telemetry"
)

// DefaultFilename is used when no data file is configured.
const DefaultFilename = "expenses.json"

// WriteError is returned when the document could not be written to disk.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Store reads and writes one data file.
type Store struct {
	path   string
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report recovered load failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for the file at path.
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultFilename
	}

	s := &Store{
		path:   path,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "store").Str("path", path).Logger()

	return s
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. Records persisted without an id are given one.
func (s *Store) Load(ctx context.Context) *expense.Document {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("store.load %s", filepath.Base(s.path)))
	defer timer.End()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Msg("data file does not exist, starting with an empty ledger")
		} else {
			s.logger.Warn().Err(err).Msg("data file unreadable, starting with an empty ledger")
		}
		return expense.NewDocument()
	}

	doc := expense.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		s.logger.Warn().Err(err).Msg("data file is not a valid expense document, starting with an empty ledger")
		return expense.NewDocument()
	}

	assigned := 0
	for i := range doc.Expenses {
		if doc.Expenses[i].ID == uuid.Nil {
			doc.Expenses[i].ID = uuid.New()
			assigned++
		}
	}
	if assigned > 0 {
		s.logger.Debug().Int("count", assigned).Msg("assigned identifiers to legacy records")
	}

	s.logger.Debug().Int("expenses", len(doc.Expenses)).Msg("loaded data file")
	return doc
}

// Save replaces the file contents with doc.
func (s *Store) Save(ctx context.Context, doc *expense.Document) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("store.save %s", filepath.Base(s.path)))
	defer timer.End()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	s.logger.Debug().Int("expenses", len(doc.Expenses)).Msg("saved data file")
	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
