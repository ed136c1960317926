// Package server exposes the calculators, record logs and analyses as a JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/expense"
	"github.com/iwvelando/calcdash/pkg/recordlog"
	"github.com/iwvelando/calcdash/pkg/session"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// Defaults are the analysis parameters used when a request does not override
// them.
type Defaults struct {
	ElectricityRate float64
	Budgets         expense.Budgets
	SleepTarget     float64
	MaxExtraSleep   float64
}

// Options configures NewHandler.
type Options struct {
	Logger      *zap.Logger
	Session     *session.Session
	MaxBodySize int64
	Version     string
	Defaults    Defaults
	// Now stamps records created without an explicit date.
	Now func() time.Time
}

type handler struct {
	logger      *zap.Logger
	session     *session.Session
	maxBodySize int64
	version     string
	defaults    Defaults
	now         func() time.Time
}

var (
	// errBadRequest marks request errors that are not record validation errors.
	errBadRequest   = errors.New("bad request")
	errBodyTooLarge = errors.New("request body too large")
)

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(opts Options) http.Handler {
	h := &handler{
		logger:      opts.Logger,
		session:     opts.Session,
		maxBodySize: opts.MaxBodySize,
		version:     strings.TrimSpace(opts.Version),
		defaults:    opts.Defaults,
		now:         opts.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.maxBodySize <= 0 {
		h.maxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.defaults.ElectricityRate <= 0 {
		h.defaults.ElectricityRate = constants.DefaultElectricityRate
	}
	if h.defaults.Budgets == nil {
		h.defaults.Budgets = expense.DefaultBudgets()
	}
	if h.defaults.SleepTarget <= 0 {
		h.defaults.SleepTarget = constants.DefaultSleepTarget
	}
	if h.defaults.MaxExtraSleep <= 0 {
		h.defaults.MaxExtraSleep = constants.DefaultMaxExtraSleep
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/version", h.handleVersion)

	// Single-shot calculators
	mux.HandleFunc("POST /api/calc/loan", h.handleLoan)
	mux.HandleFunc("POST /api/calc/investment", h.handleInvestment)
	mux.HandleFunc("POST /api/calc/affordability", h.handleAffordability)
	mux.HandleFunc("POST /api/calc/rent-vs-buy", h.handleRentVsBuy)
	mux.HandleFunc("POST /api/calc/bmi", h.handleBMI)
	mux.HandleFunc("POST /api/calc/calories", h.handleCalories)
	mux.HandleFunc("POST /api/calc/hydration", h.handleHydration)
	mux.HandleFunc("POST /api/calc/tax", h.handleTax)
	mux.HandleFunc("POST /api/calc/task", h.handleTaskEstimate)
	mux.HandleFunc("POST /api/calc/sleep-recovery", h.handleSleepRecovery)

	// Record logs
	mux.HandleFunc("GET /api/logs/appliances", h.handleListAppliances)
	mux.HandleFunc("POST /api/logs/appliances", h.handleAddAppliance)
	mux.HandleFunc("GET /api/logs/expenses", h.handleListExpenses)
	mux.HandleFunc("POST /api/logs/expenses", h.handleAddExpense)
	mux.HandleFunc("GET /api/logs/sleep", h.handleListSleep)
	mux.HandleFunc("POST /api/logs/sleep", h.handleAddSleep)
	mux.HandleFunc("GET /api/logs/tasks", h.handleListTasks)
	mux.HandleFunc("POST /api/logs/tasks", h.handleAddTask)
	mux.HandleFunc("GET /api/logs/grocery/items", h.handleListGroceryItems)
	mux.HandleFunc("POST /api/logs/grocery/items", h.handleAddGroceryItem)
	mux.HandleFunc("GET /api/logs/grocery/meals", h.handleListMeals)
	mux.HandleFunc("POST /api/logs/grocery/meals", h.handleAddMeal)
	mux.HandleFunc("GET /api/logs/grocery/shopping-lists", h.handleListShoppingLists)
	mux.HandleFunc("POST /api/logs/grocery/shopping-lists", h.handleAddShoppingList)

	// Analyses
	mux.HandleFunc("GET /api/analysis/electricity", h.handleElectricityAnalysis)
	mux.HandleFunc("GET /api/analysis/expenses", h.handleExpenseAnalysis)
	mux.HandleFunc("GET /api/analysis/grocery", h.handleGroceryAnalysis)
	mux.HandleFunc("GET /api/analysis/sleep", h.handleSleepAnalysis)
	mux.HandleFunc("GET /api/analysis/tasks", h.handleTaskAnalysis)

	return h.withRequestID(mux)
}

// Serve runs the API on cfg.Address until ctx is cancelled, then shuts the
// listener down gracefully.
func Serve(ctx context.Context, cfg *Config, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			zap.String("op", "server.Serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxBodySize", cfg.MaxBodySize),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down API server", zap.String("op", "server.Serve"))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.logger.Debug("handled request",
			zap.String("op", "server.ServeHTTP"),
			zap.String("requestID", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeBody reads a single JSON value into dst, rejecting unknown fields and
// bodies above the configured limit.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, h.maxBodySize)
		}
		return fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", errBadRequest)
	}
	return nil
}

// respondFailure maps err onto a status: storage failures are 500, oversized
// bodies 413 and everything else a client error.
func (h *handler) respondFailure(w http.ResponseWriter, err error, op string) {
	var readErr *recordlog.StorageReadError
	var writeErr *recordlog.StorageWriteError
	switch {
	case errors.Is(err, errBodyTooLarge):
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, err.Error(), op)
	case errors.As(err, &readErr), errors.As(err, &writeErr):
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), errBadRequest.Error()+": "), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("op", op))
	} else {
		h.logger.Warn(msg, zap.String("op", op))
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
