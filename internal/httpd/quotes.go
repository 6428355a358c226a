package httpd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// QuoteRequest is one inbound request for a product or service quote.
type QuoteRequest struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    string    `json:"company,omitempty"`
	Product    string    `json:"product,omitempty"`
	Message    string    `json:"message,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Validate checks the submitter-provided fields.
func (q QuoteRequest) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return fmt.Errorf("name is required")
	}
	email := strings.TrimSpace(q.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return fmt.Errorf("email looks invalid")
	}
	return nil
}

// QuoteLog persists quote requests as JSON lines, one record per line.
// Appends are serialized; the file is the system of record until a human
// follows up, so losing a line to a crash mid-write is acceptable.
type QuoteLog struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewQuoteLog creates a quote log under dir.
func NewQuoteLog(dir string, logger *slog.Logger) *QuoteLog {
	return &QuoteLog{
		path:   filepath.Join(dir, "quotes.jsonl"),
		logger: logger,
	}
}

// Append stamps and stores one quote request.
func (l *QuoteLog) Append(q *QuoteRequest) error {
	q.ID = uuid.NewString()
	q.ReceivedAt = time.Now().UTC()

	line, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to serialize quote: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open quote log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append quote: %w", err)
	}
	return nil
}

// List returns all stored quote requests, oldest first. Unparseable
// lines are skipped.
func (l *QuoteLog) List() ([]QuoteRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var quotes []QuoteRequest
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var q QuoteRequest
		if err := json.Unmarshal(scanner.Bytes(), &q); err != nil {
			l.logger.Warn("skipping malformed quote line", "error", err)
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, scanner.Err()
}

// --- handlers ---

func (s *Server) handleQuoteSubmit(w http.ResponseWriter, r *http.Request) {
	var q QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote body")
		return
	}
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.quotes.Append(&q); err != nil {
		s.logger.Error("quote append failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store quote request")
		return
	}
	s.logger.Info("quote received", "id", q.ID, "product", q.Product)
	writeJSON(w, http.StatusCreated, map[string]string{"id": q.ID})
}

func (s *Server) handleQuoteList(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.quotes.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read quote log")
		return
	}
	if quotes == nil {
		quotes = []QuoteRequest{}
	}
	writeJSON(w, http.StatusOK, quotes)
}
