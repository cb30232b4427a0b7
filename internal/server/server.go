// Package server exposes the pipeline over HTTP: messages come in, are
// processed and appended to the ledger, and the resulting record is returned.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// Processor runs one message through the pipeline. Satisfied by
// pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, message string) (models.TransactionRecord, error)
}

// LedgerAppender persists processed records. Satisfied by sheets.Appender
// and sheets.MockAppender.
type LedgerAppender interface {
	Append(ctx context.Context, record models.TransactionRecord) error
}

// Server handles the HTTP surface of the ingestion service.
type Server struct {
	processor Processor
	ledger    LedgerAppender
	logger    logging.Logger
}

// NewServer creates a Server.
func NewServer(processor Processor, ledger LedgerAppender, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Server{
		processor: processor,
		ledger:    ledger,
		logger:    logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", s.handleMessage)
	})

	return r
}

type messageRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleMessage processes one bank message and appends the result to the
// ledger. A pipeline rejection (strict mode) is the caller's fault, a ledger
// failure is an upstream fault.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	record, err := s.processor.Process(r.Context(), req.Message)
	if err != nil {
		s.logger.WithError(err).Warn("Message rejected")
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.Append(r.Context(), record); err != nil {
		s.logger.WithError(err).WithField("transaction_id", record.TransactionID).
			Error("Failed to append record to ledger")
		s.writeError(w, http.StatusBadGateway, "failed to store transaction")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(recordResponse(record)); err != nil {
		s.logger.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// transactionResponse is the JSON shape returned for a processed message.
type transactionResponse struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Direction     string  `json:"direction"`
	Method        string  `json:"payment_method"`
	Account       string  `json:"account"`
	Merchant      string  `json:"merchant"`
	Category      string  `json:"category"`
	Confidence    float64 `json:"confidence"`
	Source        string  `json:"source"`
}

func recordResponse(record models.TransactionRecord) transactionResponse {
	return transactionResponse{
		TransactionID: record.TransactionID,
		Date:          record.Timestamp.Format(models.TimestampLayout),
		Amount:        record.Amount.StringFixed(2),
		Direction:     string(record.Direction),
		Method:        string(record.Method),
		Account:       record.Account,
		Merchant:      record.Merchant,
		Category:      record.Category,
		Confidence:    record.Confidence,
		Source:        string(record.Source),
	}
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.WithFields(
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "status", Value: ww.Status()},
			logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
		).Info("Request handled")
	})
}
