package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: requestIDFrom(r.Context()),
	})
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without its details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeMessage(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidArgument), errors.Is(err, models.ErrInvalidTransition):
		writeMessage(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.FromContext(r.Context(), s.log).Error("http_request", "request failed", err,
			"method", r.Method, "path", r.URL.Path)
		writeMessage(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.NewValidationError("", "invalid request body: "+err.Error())
	}
	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, models.NewValidationError(name, "must be an integer")
	}
	return id, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, models.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or an RFC3339 timestamp. A bare date used
// as the end of a range covers that whole day.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "expected YYYY-MM-DD or RFC3339, got "+strconv.Quote(value))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if q.Get("startDate") == "" || q.Get("endDate") == "" {
		return time.Time{}, time.Time{}, models.NewValidationError("startDate", "startDate and endDate are required")
	}
	start, err := parseDate(q.Get("startDate"), false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(q.Get("endDate"), true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
