package report

import (
	"encoding/csv"
	"io"

	"github.com/robinvdvleuten/expenses/expense"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"date", "category", "description", "amount"}

// CSVRows returns the export rows of doc in stored order, header first.
func CSVRows(doc *expense.Document) [][]string {
	rows := make([][]string, 0, len(doc.Expenses)+1)
	rows = append(rows, CSVHeader)
	for _, e := range doc.Expenses {
		rows = append(rows, []string{e.Date, e.Category, e.Description, e.Amount.StringFixed(2)})
	}
	return rows
}

// WriteCSV writes the export of doc to w.
func WriteCSV(w io.Writer, doc *expense.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(CSVRows(doc)); err != nil {
		return err
	}
	return cw.Error()
}
