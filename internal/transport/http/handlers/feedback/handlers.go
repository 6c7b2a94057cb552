package feedbackhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffdesk/internal/domain/auth"
	"staffdesk/internal/domain/directory"
	"staffdesk/internal/domain/feedback"
	"staffdesk/internal/transport/http/api"
	"staffdesk/internal/transport/http/middleware"
	"staffdesk/internal/transport/http/shared"
)

type Handler struct {
	Service   *feedback.Service
	Directory *directory.Store
	Perms     middleware.PermissionStore
}

func NewHandler(service *feedback.Service, dir *directory.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Directory: dir, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFeedbackRead, h.Perms)).Get("/cycles", h.handleListCycles)
		r.With(middleware.RequirePermission(auth.PermFeedbackRead, h.Perms)).Get("/cycles/active", h.handleActiveCycle)
		r.With(middleware.RequirePermission(auth.PermFeedbackAdmin, h.Perms)).Post("/cycles", h.handleCreateCycle)
		r.With(middleware.RequirePermission(auth.PermFeedbackRead, h.Perms)).Get("/cycles/{cycleID}/responses", h.handleListResponses)
		r.With(middleware.RequirePermission(auth.PermFeedbackWrite, h.Perms)).Post("/cycles/{cycleID}/responses", h.handleSubmitResponse)
	})
}

func (h *Handler) handleActiveCycle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	own, err := h.Directory.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || own == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", middleware.GetRequestID(r.Context()))
		return
	}

	today := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
			return
		}
		today = parsed
	}

	cycle, err := h.Service.ActiveCycle(r.Context(), own, today)
	if err != nil {
		if errors.Is(err, feedback.ErrNoActiveCycle) {
			api.Success(w, nil, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "feedback_cycle_failed", "failed to locate active cycle", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Service.ListCycles(r.Context(), r.URL.Query().Get("quarter"))
	if err != nil {
		if errors.Is(err, feedback.ErrInvalidQuarter) {
			api.Fail(w, http.StatusBadRequest, "invalid_quarter", "quarter must be one of Q1, Q2, Q3, Q4", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "feedback_cycles_failed", "failed to list cycles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

type createCyclePayload struct {
	OwnerEmployeeID string `json:"ownerEmployeeId"`
	DepartmentID    string `json:"departmentId"`
	Quarter         string `json:"quarter"`
	Title           string `json:"title"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var payload createCyclePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("ownerEmployeeId", payload.OwnerEmployeeID, "owner is required")
	v.Required("departmentId", payload.DepartmentID, "department is required")
	v.Enum("quarter", payload.Quarter, feedback.Quarters, "must be one of Q1, Q2, Q3, Q4")
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateCycle(r.Context(), feedback.Cycle{
		OwnerEmployeeID: payload.OwnerEmployeeID,
		DepartmentID:    payload.DepartmentID,
		Quarter:         payload.Quarter,
		Title:           payload.Title,
		StartDate:       start,
		EndDate:         end,
	})
	if err != nil {
		if errors.Is(err, feedback.ErrInvalidQuarter) {
			api.Fail(w, http.StatusBadRequest, "invalid_quarter", "quarter must be one of Q1, Q2, Q3, Q4", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "feedback_cycle_create_failed", "failed to create cycle", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.Service.ListResponses(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		if errors.Is(err, feedback.ErrCycleNotFound) {
			api.Fail(w, http.StatusNotFound, "cycle_not_found", "feedback cycle not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "feedback_responses_failed", "failed to list responses", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, responses, middleware.GetRequestID(r.Context()))
}

type submitResponsePayload struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (h *Handler) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	own, err := h.Directory.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || own == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.SubmitResponse(r.Context(), feedback.Response{
		CycleID:    chi.URLParam(r, "cycleID"),
		EmployeeID: own,
		Rating:     payload.Rating,
		Comments:   payload.Comments,
	}, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, feedback.ErrCycleNotFound):
			api.Fail(w, http.StatusNotFound, "cycle_not_found", "feedback cycle not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, feedback.ErrOutsideWindow):
			api.Fail(w, http.StatusConflict, "cycle_closed", "cycle window is not active", middleware.GetRequestID(r.Context()))
		case errors.Is(err, feedback.ErrInvalidRating):
			api.Fail(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "feedback_submit_failed", "failed to submit response", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
