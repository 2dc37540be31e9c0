package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carson-networks/budget-ledger/internal/logging"
)

// Check reports whether a dependency can serve requests.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

// NewHandler returns a status handler. Without checks it only reports that
// the process is up.
func NewHandler() Handler {
	return Handler{checks: map[string]Check{}}
}

// WithCheck adds a named readiness check.
func (h Handler) WithCheck(name string, check Check) Handler {
	h.checks[name] = check
	return h
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	for name, check := range h.checks {
		if err := check(req.Context()); err != nil {
			logData.AddData("failedCheck", name)
			w.WriteHeader(http.StatusServiceUnavailable)
			return fmt.Errorf("status: %s: %w", name, err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
