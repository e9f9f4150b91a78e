package paycheck

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID string, dto CreatePaycheckDTO) (*Paycheck, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*Paycheck, int64, error)
	Get(ctx context.Context, userID, id string) (*Paycheck, error)
	Update(ctx context.Context, userID, id string, dto UpdatePaycheckDTO) (*Paycheck, error)
	Delete(ctx context.Context, userID, id string) error
	Analytics(ctx context.Context, userID string, start, end *time.Time) (*Analytics, error)
	Trends(ctx context.Context, userID string) (*Trends, error)
	TrendsChart(ctx context.Context, userID string, w io.Writer) error
	Compare(ctx context.Context, userID string, p1, p2 Period) (*Comparison, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// dateRange reads optional start_date/end_date query parameters.
func dateRange(r *http.Request) (*time.Time, *time.Time, *internal.AppError) {
	start, appErr := validation.ParseDate("start_date", r.URL.Query().Get("start_date"))
	if appErr != nil {
		return nil, nil, appErr
	}
	end, appErr := validation.ParseDate("end_date", r.URL.Query().Get("end_date"))
	if appErr != nil {
		return nil, nil, appErr
	}
	return start, end, nil
}

// CreatePaycheck handles POST /paycheck
func (h *Handler) CreatePaycheck(w http.ResponseWriter, r *http.Request) {
	var dto CreatePaycheckDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	p, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.Logger.Warn("CreatePaycheck: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Paycheck created successfully", map[string]interface{}{
		"paycheck": p,
	})
}

// ListPaychecks handles GET /paycheck?employer=&employee_name=&start_date=&end_date=&page=&per_page=
func (h *Handler) ListPaychecks(w http.ResponseWriter, r *http.Request) {
	start, end, appErr := dateRange(r)
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	page := transport.ParsePage(r)
	filter := ListFilter{
		Employer:     r.URL.Query().Get("employer"),
		EmployeeName: r.URL.Query().Get("employee_name"),
		StartDate:    start,
		EndDate:      end,
		Page:         page,
	}

	items, total, err := h.Service.List(r.Context(), internal.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Paychecks:  items,
		Pagination: transport.NewPagination(page, total),
	})
}

// GetPaycheck handles GET /paycheck/{id}
func (h *Handler) GetPaycheck(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"paycheck": p})
}

// UpdatePaycheck handles PUT /paycheck/{id}
func (h *Handler) UpdatePaycheck(w http.ResponseWriter, r *http.Request) {
	var dto UpdatePaycheckDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	p, err := h.Service.Update(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Paycheck updated successfully", map[string]interface{}{
		"paycheck": p,
	})
}

// DeletePaycheck handles DELETE /paycheck/{id}
func (h *Handler) DeletePaycheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Paycheck deleted successfully", nil)
}

// Analytics handles GET /paycheck/analytics/{user_id}
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	start, end, appErr := dateRange(r)
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	a, err := h.Service.Analytics(r.Context(), chi.URLParam(r, "user_id"), start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// Trends handles GET /paycheck/trends/{user_id}
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.Trends(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// TrendsChart handles GET /paycheck/trends/{user_id}/chart
func (h *Handler) TrendsChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.TrendsChart(r.Context(), chi.URLParam(r, "user_id"), &buf); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("TrendsChart: failed to write image", "error", err)
	}
}

// Compare handles GET /paycheck/compare/{user_id}?period1_start=&period1_end=&period2_start=&period2_end=
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p1, p2, err := ParsePeriods(q.Get("period1_start"), q.Get("period1_end"), q.Get("period2_start"), q.Get("period2_end"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.Compare(r.Context(), chi.URLParam(r, "user_id"), p1, p2)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}
