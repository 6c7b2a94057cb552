package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staffdesk/internal/domain/auth"
	"staffdesk/internal/domain/reports"
	"staffdesk/internal/transport/http/api"
	"staffdesk/internal/transport/http/middleware"
	"staffdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/overview", h.handleOverview)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/leave/balances", h.handleLeaveBalances)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/leave/balances.csv", h.handleLeaveBalancesCSV)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/leave/balances.pdf", h.handleLeaveBalancesPDF)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/leave/usage", h.handleLeaveUsage)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/attendance/daily", h.handleAttendanceDaily)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/attendance/daily.csv", h.handleAttendanceDailyCSV)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.Overview(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build overview", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, overview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaveBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.LeaveBalances(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build balance report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaveBalancesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leave_balances.csv"`)
	if err := h.Service.WriteBalancesCSV(r.Context(), w); err != nil {
		log.Warn().Err(err).Msg("balance csv export failed")
	}
}

func (h *Handler) handleLeaveBalancesPDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="leave_balances.pdf"`)
	if err := h.Service.WriteBalancesPDF(r.Context(), w); err != nil {
		log.Warn().Err(err).Msg("balance pdf export failed")
	}
}

func (h *Handler) handleLeaveUsage(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("until"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "until must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		until = parsed
	}

	rows, err := h.Service.LeaveUsage(r.Context(), from, until)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build usage report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttendanceDaily(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		day = parsed
	}
	sessions, err := h.Service.AttendanceSummary(r.Context(), day, time.Now().UTC())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build attendance report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sessions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttendanceDailyCSV(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		day = parsed
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance_daily.csv"`)
	if err := h.Service.WriteAttendanceCSV(r.Context(), w, day, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("attendance csv export failed")
	}
}
