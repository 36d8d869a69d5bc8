package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/expenses/expense"
	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSONResponse(w, status, &ErrorResponse{Error: message})
}

// writeDomainError maps ledger errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var (
		writeErr *store.WriteError
		indexErr *expense.IndexError
	)
	switch {
	case expense.IsValidation(err):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, expense.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &indexErr):
		writeErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &writeErr):
		s.Logger.Error().Err(err).Msg("request failed to persist")
		writeErrorResponse(w, http.StatusInternalServerError, "failed to save expenses")
	default:
		s.Logger.Error().Err(err).Msg("request failed")
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// AlertResponse describes the budget state after a request.
type AlertResponse struct {
	Level   report.AlertLevel `json:"level"`
	Message string            `json:"message,omitempty"`
}

func (s *Server) currentAlert() AlertResponse {
	a := report.BudgetAlert(ledger.Sum(s.ledger.Expenses()), s.ledger.Budget())
	return AlertResponse{Level: a.Level, Message: a.Message(s.Currency)}
}

// CategoryTotalResponse is one category with its total.
type CategoryTotalResponse struct {
	Category string      `json:"category"`
	Total    json.Number `json:"total"`
}

func categoryTotals(totals []ledger.CategoryTotal) []CategoryTotalResponse {
	out := make([]CategoryTotalResponse, 0, len(totals))
	for _, ct := range totals {
		out = append(out, CategoryTotalResponse{Category: ct.Category, Total: money(ct.Total)})
	}
	return out
}

// InfoResponse describes the running server.
type InfoResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commit"`
	ReadOnly  bool   `json:"read_only"`
	File      string `json:"file"`
	Currency  string `json:"currency"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, &InfoResponse{
		Version:   s.Version,
		CommitSHA: s.CommitSHA,
		ReadOnly:  s.ReadOnly,
		File:      s.store.Path(),
		Currency:  s.Currency.Symbol,
	})
}

// SummaryResponse is the dashboard payload.
type SummaryResponse struct {
	Total         json.Number             `json:"total"`
	Budget        json.Number             `json:"budget"`
	Remaining     *json.Number            `json:"remaining"`
	Count         int                     `json:"count"`
	Alert         AlertResponse           `json:"alert"`
	TopCategories []CategoryTotalResponse `json:"top_categories"`
}

// handleSummary handles GET requests to /api/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.summary())
}

func (s *Server) summary() *SummaryResponse {
	doc := s.ledger.Document()
	sum := report.Summarize(doc)

	resp := &SummaryResponse{
		Total:         money(sum.Total),
		Budget:        money(sum.Budget),
		Count:         len(doc.Expenses),
		Alert:         s.currentAlert(),
		TopCategories: categoryTotals(report.TopCategories(doc, 5)),
	}
	if sum.BudgetSet {
		remaining := money(sum.Remaining)
		resp.Remaining = &remaining
	}
	return resp
}

// ExpensesResponse lists expenses, most recent first.
type ExpensesResponse struct {
	Expenses []expense.Expense `json:"expenses"`
	Total    json.Number       `json:"total"`
}

// handleListExpenses handles GET requests to /api/expenses.
// Supports search, category and limit query parameters.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := ledger.Query{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	matches := s.ledger.Query(q)
	total := ledger.Sum(matches)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}
	}

	writeJSONResponse(w, http.StatusOK, &ExpensesResponse{Expenses: matches, Total: money(total)})
}

// textOrNumber accepts both JSON strings and numbers, so clients may send
// "1,200.50" or 1200.5.
type textOrNumber string

func (t *textOrNumber) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = textOrNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = textOrNumber(n.String())
	return nil
}

// ExpenseRequest is the body of create and update requests.
type ExpenseRequest struct {
	Amount      textOrNumber `json:"amount"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
}

func (req ExpenseRequest) input() expense.Input {
	return expense.Input{
		Amount:      string(req.Amount),
		Category:    req.Category,
		Description: req.Description,
	}
}

// ExpenseResponse returns a single expense and the resulting alert.
type ExpenseResponse struct {
	Expense expense.Expense `json:"expense"`
	Alert   AlertResponse   `json:"alert"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %v", err))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid expense id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}

// handleCreateExpense handles POST requests to /api/expenses.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.ledger.Add(r.Context(), req.input())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, http.StatusCreated, &ExpenseResponse{Expense: e, Alert: s.currentAlert()})
}

// handleUpdateExpense handles PUT requests to /api/expenses/{id}.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.ledger.Update(r.Context(), id, req.input())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, http.StatusOK, &ExpenseResponse{Expense: e, Alert: s.currentAlert()})
}

// handleDeleteExpense handles DELETE requests to /api/expenses/{id}.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	e, err := s.ledger.Delete(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, http.StatusOK, &ExpenseResponse{Expense: e, Alert: s.currentAlert()})
}

// handleClear handles DELETE requests to /api/expenses.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Clear(r.Context()); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, http.StatusOK, s.summary())
}

// BudgetRequest is the body of PUT /api/budget.
type BudgetRequest struct {
	Budget textOrNumber `json:"budget"`
}

// BudgetResponse returns the stored budget and the resulting alert.
type BudgetResponse struct {
	Budget json.Number   `json:"budget"`
	Alert  AlertResponse `json:"alert"`
}

// handlePutBudget handles PUT requests to /api/budget.
func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	budget, err := s.ledger.SetBudget(r.Context(), string(req.Budget))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, http.StatusOK, &BudgetResponse{Budget: money(budget), Alert: s.currentAlert()})
}

// CategoriesResponse lists selectable categories and the spending per
// category, largest first.
type CategoriesResponse struct {
	Categories []string                `json:"categories"`
	Totals     []CategoryTotalResponse `json:"totals"`
}

// handleCategories handles GET requests to /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, &CategoriesResponse{
		Categories: s.ledger.Categories(),
		Totals:     categoryTotals(report.SortedCategories(s.ledger.Expenses())),
	})
}

// MonthTotalResponse is one month of the series.
type MonthTotalResponse struct {
	Month string      `json:"month"`
	Total json.Number `json:"total"`
}

// MonthsResponse is the monthly series, oldest first.
type MonthsResponse struct {
	Months []MonthTotalResponse `json:"months"`
}

// handleMonths handles GET requests to /api/months.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	count := report.DefaultMonths
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "count must be an integer")
			return
		}
		if n > report.MaxMonths {
			writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("count must be at most %d", report.MaxMonths))
			return
		}
		count = n
	}

	series := report.MonthlySeries(s.ledger.Document(), count, s.now())
	months := make([]MonthTotalResponse, 0, len(series))
	for _, m := range series {
		months = append(months, MonthTotalResponse{Month: m.Month, Total: money(m.Total)})
	}

	writeJSONResponse(w, http.StatusOK, &MonthsResponse{Months: months})
}

// handleReport handles GET requests to /api/report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	text := report.RenderText(s.ledger.Document(), s.now(), s.Currency)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if r.URL.Query().Has("download") {
		w.Header().Set("Content-Disposition", `attachment; filename="expense-report.txt"`)
	}
	_, _ = w.Write([]byte(text))
}

// handleExport handles GET requests to /api/export.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, s.ledger.Document()); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	_, _ = w.Write(buf.Bytes())
}

