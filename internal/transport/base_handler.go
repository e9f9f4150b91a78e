package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	apperrors "github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/shopspring/decimal"
)

func init() {
	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DefaultPerPage = 100
	MaxPerPage     = 500
	// MaxPage keeps (page-1)*per_page well inside int range.
	MaxPage = 1_000_000
)

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

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteMessage writes the {"message": ...} envelope used by create/delete endpoints.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	body := map[string]interface{}{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	h.WriteJSON(w, status, body)
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "message", message)
	} else {
		h.Logger.Warn("http error", "status", status, "message", message)
	}
	h.WriteJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": message,
	})
}

// HandleError writes an AppError with its own status code.
func (h *BaseHandler) HandleError(w http.ResponseWriter, appErr *apperrors.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "status", status, "error", appErr)
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps service errors to HTTP responses. Anything that is not an
// AppError is treated as an internal failure and its text is not leaked.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok {
		h.HandleError(w, appErr)
		return
	}
	h.Logger.Error("unhandled service error", "error", err)
	h.HandleError(w, apperrors.NewInternalError("internal server error", err))
}

// DecodeJSON decodes a request body into dst, rejecting empty bodies.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *apperrors.AppError {
	if r.Body == nil {
		return apperrors.NewValidationError("request body is required", apperrors.ErrCodeValidationFailed)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("request body is required", apperrors.ErrCodeValidationFailed)
		}
		return apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
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

// Page is the page/per_page pair accepted by list endpoints.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) Offset() int {
	page := min(max(p.Page, 1), MaxPage)
	perPage := min(max(p.PerPage, 0), MaxPerPage)
	return (page - 1) * perPage
}

// ParsePage reads page and per_page, falling back to defaults on bad input.
func ParsePage(r *http.Request) Page {
	p := Page{Page: 1, PerPage: DefaultPerPage}
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			p.Page = v
		}
	}
	if s := r.URL.Query().Get("per_page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			p.PerPage = v
		}
	}
	p.Page = min(p.Page, MaxPage)
	p.PerPage = min(p.PerPage, MaxPerPage)
	return p
}

type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.PerPage > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return Pagination{
		Total:       total,
		Pages:       pages,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
	}
}
