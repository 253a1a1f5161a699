package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/pkg/logger"
)

var ErrEmptyBody = errors.New("request body is empty")

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

type ErrorResponse struct {
	Code    int         `json:"code"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeError(w, ErrorResponse{Code: status, Error: message})
}

func (h *BaseHandler) writeError(w http.ResponseWriter, resp ErrorResponse) {
	if resp.Code >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", resp.Code, "message", resp.Error)
	} else {
		h.Logger.Debug("http error", "status", resp.Code, "message", resp.Error)
	}
	h.WriteJSON(w, resp.Code, resp)
}

// HandleServiceError maps app errors to their status and message. Anything
// else is logged and answered with a 500 carrying fallback.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
		resp := ErrorResponse{
			Code:  appErr.StatusCode,
			Error: appErr.GetDetailedMessage(),
		}
		if details, ok := appErr.Details.(internal.ValidationErrors); ok {
			resp.Details = details.Errors
		}
		h.writeError(w, resp)
		return
	}

	h.Logger.Error("service error", "error", err)
	h.writeError(w, ErrorResponse{Code: http.StatusInternalServerError, Error: fallback})
}

// DecodeJSON reads a JSON request body into v. Unknown fields are accepted.
func (h *BaseHandler) DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}

	return strings.TrimSpace(authHeader[7:])
}

// ParseIDList reads an id set from a query value. The canonical form is a
// JSON array such as [1,2,3]; numeric strings inside the array and a bare
// comma separated list are accepted too.
func ParseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("no ids given")
	}

	if !strings.HasPrefix(raw, "[") {
		var ids []int64
		for _, part := range strings.Split(raw, ",") {
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	var values []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("ids must be a JSON array: %w", err)
	}

	ids := make([]int64, 0, len(values))
	for _, v := range values {
		var text string
		if err := json.Unmarshal(v, &text); err != nil {
			text = string(v)
		}
		id, err := ParseID(text)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
