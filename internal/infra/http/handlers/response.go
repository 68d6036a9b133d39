package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Error   *errorBody     `json:"error"`
	Meta    map[string]any `json:"meta"`
}

type errorBody struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Meta: map[string]any{}}); err != nil {
		log.Printf("❌ [HTTP] encoding response: %v", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorBody{Message: message, Details: details},
		Meta:    map[string]any{},
	})
}

// writeError maps use-case and repository errors onto status codes. Messages
// of unexpected failures are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if domainErr, ok := usecase.AsDomainError(err); ok {
		switch domainErr.Code {
		case usecase.CodeNotFound:
			writeFailure(w, http.StatusNotFound, domainErr.Message, domainErr.Details)
		case usecase.CodeConflict:
			writeFailure(w, http.StatusConflict, domainErr.Message, domainErr.Details)
		default:
			writeFailure(w, http.StatusUnprocessableEntity, domainErr.Message, domainErr.Details)
		}
		return
	}

	var cfgErr *usecase.ConfigurationError
	if errors.As(err, &cfgErr) {
		log.Printf("❌ [HTTP] %s %s: %v", r.Method, r.URL.Path, err)
		writeFailure(w, http.StatusInternalServerError, cfgErr.Message, nil)
		return
	}

	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, entity.ErrDuplicate):
		writeFailure(w, http.StatusConflict, "Record already exists", nil)
	case errors.Is(err, entity.ErrInvalidReference):
		writeFailure(w, http.StatusUnprocessableEntity, "Referenced record does not exist", nil)
	default:
		log.Printf("❌ [HTTP] %s %s: %v", r.Method, r.URL.Path, err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeInvalidJSON(w http.ResponseWriter) {
	writeFailure(w, http.StatusBadRequest, "Invalid JSON", nil)
}

// urlID parses a positive {id} path parameter, writing a 404 when it is not one.
func urlID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeFailure(w, http.StatusNotFound, resource+" not found", nil)
		return 0, false
	}
	return id, true
}

func queryID(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// actorID returns the authenticated user id. Routes are mounted behind
// RequirePermission, so a missing actor is a wiring error.
func actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Unauthenticated", nil)
		return 0, false
	}
	return actor.ID, true
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// entityValidation turns an entity constructor error into a 422.
func entityValidation(field string, err error) error {
	return usecase.NewValidationError(map[string]string{field: err.Error()})
}
