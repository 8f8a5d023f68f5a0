package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	errors "github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/pkg/logger"
)

const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return BaseHandler{Logger: lg}
}

func (h *BaseHandler) log() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log().Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes {"error": message} with the given status.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, map[string]string{"error": message})
}

// HandleError maps service errors to HTTP responses. Application errors keep
// their status and message; anything else becomes an opaque 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		h.log().Error("unhandled error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.log().Error("internal error", "code", appErr.Code, "error", appErr)
		h.WriteError(w, appErr.StatusCode, "Internal server error")
		return
	}

	h.log().Debug("request error", "status", appErr.StatusCode, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
}

// DecodeJSON reads a JSON body into dst, rejecting malformed and
// trailing data.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid request body: %s", jsonErrorMessage(err)), errors.ErrCodeValidationFailed)
	}
	if dec.More() {
		return errors.NewValidationError("invalid request body: unexpected trailing data", errors.ErrCodeValidationFailed)
	}
	return nil
}

func jsonErrorMessage(err error) string {
	if err == io.EOF {
		return "body is empty"
	}
	return strings.TrimPrefix(err.Error(), "json: ")
}

// URLParamUUID parses a chi route parameter as a UUID.
func (h *BaseHandler) URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewValidationError(fmt.Sprintf("invalid %s", name), errors.ErrCodeInvalidID)
	}
	return id, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
