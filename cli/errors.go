package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/store"
)

// Exit codes returned through CommandError.
const (
	exitFailure    = 1
	exitInvalid    = 2
	exitNotFound   = 3
	exitWriteError = 4
)

// CommandError signals a command failure that has already been reported to
// the user. Main turns it into the process exit code.
type CommandError struct {
	exitCode int
	err      error
}

// NewCommandError wraps err with an exit code.
func NewCommandError(exitCode int, err error) *CommandError {
	return &CommandError{exitCode: exitCode, err: err}
}

func (e *CommandError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e *CommandError) Unwrap() error { return e.err }

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// describeError turns ledger errors into a message for the user.
func describeError(err error) (string, int) {
	var (
		missing  *expense.MissingFieldError
		indexErr *expense.IndexError
		writeErr *store.WriteError
	)

	switch {
	case errors.Is(err, expense.ErrInvalidAmount):
		return fmt.Sprintf("Invalid amount: %v", err), exitInvalid
	case errors.As(err, &missing):
		return fmt.Sprintf("Missing %s: please provide a %s", missing.Field, missing.Field), exitInvalid
	case errors.Is(err, expense.ErrNotFound):
		return fmt.Sprintf("Not found: %v", err), exitNotFound
	case errors.As(err, &indexErr):
		return fmt.Sprintf("The ledger changed, reload and try again (%v)", err), exitNotFound
	case errors.As(err, &writeErr):
		return fmt.Sprintf("Could not save %s: %v", writeErr.Path, writeErr.Err), exitWriteError
	default:
		return err.Error(), exitFailure
	}
}

// fail prints err to w and returns the matching CommandError.
func fail(w io.Writer, err error) error {
	message, code := describeError(err)
	printError(w, message)
	return NewCommandError(code, err)
}

// printAlert shows a budget alert. At startup only an exceeded budget is
// reported.
func printAlert(w io.Writer, alert report.Alert, cur report.Currency, startup bool) {
	switch alert.Level {
	case report.AlertWarning:
		printWarning(w, alert.Message(cur))
	case report.AlertInfo:
		if !startup {
			printInfof(w, "%s", alert.Message(cur))
		}
	}
}
