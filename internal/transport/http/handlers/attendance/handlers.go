package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffdesk/internal/domain/attendance"
	"staffdesk/internal/domain/auth"
	"staffdesk/internal/domain/directory"
	"staffdesk/internal/transport/http/api"
	"staffdesk/internal/transport/http/middleware"
	"staffdesk/internal/transport/http/shared"
)

type Handler struct {
	Service   *attendance.Service
	Directory *directory.Store
	Perms     middleware.PermissionStore
}

func NewHandler(service *attendance.Service, dir *directory.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Directory: dir, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/clock-in", h.handleClockIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/clock-out", h.handleClockOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/day", h.handleDay)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/range", h.handleRange)
	})
}

type clockPayload struct {
	At         string   `json:"at"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Correction bool     `json:"correction"`
}

func (h *Handler) ownEmployeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return "", false
	}
	own, err := h.Directory.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
		return "", false
	}
	if own == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return own, true
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownEmployeeID(w, r)
	if !ok {
		return
	}
	var payload clockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	at := time.Now().UTC()
	if payload.At != "" {
		parsed, err := time.Parse(time.RFC3339, payload.At)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "at must be RFC3339", middleware.GetRequestID(r.Context()))
			return
		}
		at = parsed
	}

	ev, err := h.Service.ClockIn(r.Context(), own, at, payload.Latitude, payload.Longitude, payload.Correction)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			api.Fail(w, http.StatusConflict, "already_clocked_in", "already clocked in today", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to record clock-in", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, ev, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownEmployeeID(w, r)
	if !ok {
		return
	}
	var payload clockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	at := time.Now().UTC()
	if payload.At != "" {
		parsed, err := time.Parse(time.RFC3339, payload.At)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "at must be RFC3339", middleware.GetRequestID(r.Context()))
			return
		}
		at = parsed
	}

	ev, err := h.Service.ClockOut(r.Context(), own, at, payload.Latitude, payload.Longitude)
	if err != nil {
		if errors.Is(err, attendance.ErrNotClockedIn) {
			api.Fail(w, http.StatusConflict, "not_clocked_in", "no open session today", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to record clock-out", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, ev, middleware.GetRequestID(r.Context()))
}

// resolveTarget allows managers and HR to view other employees' sessions.
func (h *Handler) resolveTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return "", false
	}
	own, err := h.Directory.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
		return "", false
	}
	target := r.URL.Query().Get("employeeId")
	if target == "" || target == own {
		if own == "" {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", middleware.GetRequestID(r.Context()))
			return "", false
		}
		return own, true
	}
	if user.RoleName == auth.RoleHR {
		return target, true
	}
	managed, err := h.Directory.IsManagerOf(r.Context(), own, target)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
		return "", false
	}
	if !managed {
		api.Fail(w, http.StatusForbidden, "forbidden", "not permitted to view this employee", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return target, true
}

func (h *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}
	day, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	if day.IsZero() {
		day = time.Now().UTC()
	}

	session, err := h.Service.Day(r.Context(), employeeID, day, time.Now().UTC())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_day_failed", "failed to load attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, session, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRange(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil || from.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	until, err := shared.ParseDate(r.URL.Query().Get("until"))
	if err != nil || until.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "until must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	if until.Before(from) {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "until must be on or after from", middleware.GetRequestID(r.Context()))
		return
	}

	sessions, err := h.Service.Range(r.Context(), employeeID, from, until, time.Now().UTC())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_range_failed", "failed to load attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sessions, middleware.GetRequestID(r.Context()))
}
