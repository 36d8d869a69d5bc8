// Package web provides a local JSON API over the expense ledger.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/store"
	"github.com/robinvdvleuten/expenses/telemetry"
	"github.com/robinvdvleuten/expenses/watch"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	ReadOnly     bool
	WatchEnabled bool
	Currency     report.Currency
	Logger       zerolog.Logger

	store  *store.Store
	ledger *ledger.Ledger
	now    func() time.Time

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, s *store.Store) *Server {
	return NewWithVersion(port, s, "", "")
}

func NewWithVersion(port int, s *store.Store, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		Currency:   report.NewCurrency(""),
		Logger:     zerolog.Nop(),
		store:      s,
		now:        time.Now,
		sseClients: make(map[chan string]struct{}),
	}
}

// UseLedger serves an already opened ledger instead of loading one on Start.
func (s *Server) UseLedger(l *ledger.Ledger) {
	s.ledger = l
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Start loads the ledger and serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s", s.Addr()))

	if s.store == nil {
		timer.End()
		return fmt.Errorf("data file is required")
	}

	if s.ledger == nil {
		loadTimer := timer.Child("web.load_ledger")
		s.reloadLedger(ctx)
		loadTimer.End()
	}

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/info", s.handleInfo)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.requireWritable(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses", s.requireWritable(s.handleClear))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireWritable(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireWritable(s.handleDeleteExpense))
	mux.HandleFunc("PUT /api/budget", s.requireWritable(s.handlePutBudget))
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/months", s.handleMonths)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			writeErrorResponse(w, http.StatusForbidden, "Server is in read-only mode")
			return
		}
		next(w, r)
	}
}

// reloadLedger loads the ledger on first use and reloads it from disk after
// that.
func (s *Server) reloadLedger(ctx context.Context) {
	if s.ledger == nil {
		s.ledger = ledger.Open(ctx, s.store,
			ledger.WithLogger(s.Logger),
			ledger.WithClock(s.now),
		)
		return
	}
	s.ledger.Reload(ctx)
}

// startWatcher reloads the ledger and notifies SSE clients whenever another
// writer changes the data file.
func (s *Server) startWatcher(ctx context.Context) error {
	_, err := watch.Start(ctx, s.store.Path(), func() {
		s.reloadLedger(ctx)
		s.broadcast("reload")
	}, watch.WithLogger(s.Logger))
	return err
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
