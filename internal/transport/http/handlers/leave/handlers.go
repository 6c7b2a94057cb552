package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"staffdesk/internal/domain/auth"
	"staffdesk/internal/domain/leave"
	"staffdesk/internal/domain/notifications"
	"staffdesk/internal/transport/http/api"
	"staffdesk/internal/transport/http/middleware"
	"staffdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
}

func NewHandler(service *leave.Service, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/categories", h.handleListCategories)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/categories", h.handleCreateCategory)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/balances", h.handleListBalances)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/balances/{categoryID}", h.handleGetBalance)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleRejectRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests/{requestID}/cancel", h.handleCancelRequest)
	})
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") == ""
	categories, err := h.Service.ListCategories(r.Context(), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_categories_failed", "failed to list leave categories", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, categories, middleware.GetRequestID(r.Context()))
}

type createCategoryRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	MaxAllotment string `json:"maxAllotment"`
	Active       *bool  `json:"active"`
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.RoleName != auth.RoleHR {
		api.Fail(w, http.StatusForbidden, "forbidden", "hr role required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("code", payload.Code, "code is required")
	allotment, err := decimal.NewFromString(payload.MaxAllotment)
	if err != nil || !allotment.IsPositive() {
		v.Add("maxAllotment", "must be a positive number")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cat := leave.Category{
		Name:         strings.TrimSpace(payload.Name),
		Code:         strings.TrimSpace(payload.Code),
		MaxAllotment: allotment,
		Active:       true,
	}
	if payload.Active != nil {
		cat.Active = *payload.Active
	}
	id, err := h.Service.CreateCategory(r.Context(), cat)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_category_create_failed", "failed to create leave category", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

// resolveTargetEmployee returns the employee whose records the request may
// see: the caller's own unless an employeeId parameter names someone the
// caller manages, or the caller is HR.
func (h *Handler) resolveTargetEmployee(w http.ResponseWriter, r *http.Request, user auth.UserContext) (string, bool) {
	requestID := middleware.GetRequestID(r.Context())
	own, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", requestID)
		return "", false
	}
	if own == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", requestID)
		return "", false
	}

	target := r.URL.Query().Get("employeeId")
	if target == "" || target == own {
		return own, true
	}
	if user.RoleName == auth.RoleHR {
		return target, true
	}
	managed, err := h.Service.IsManagerOf(r.Context(), own, target)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", requestID)
		return "", false
	}
	if !managed {
		api.Fail(w, http.StatusForbidden, "forbidden", "not permitted to view this employee", requestID)
		return "", false
	}
	return target, true
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID, ok := h.resolveTargetEmployee(w, r, user)
	if !ok {
		return
	}
	balances, err := h.Service.Balances(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_balances_failed", "failed to compute balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID, ok := h.resolveTargetEmployee(w, r, user)
	if !ok {
		return
	}
	categoryID := chi.URLParam(r, "categoryID")
	summary, err := h.Service.Balance(r.Context(), employeeID, categoryID)
	if err != nil {
		if errors.Is(err, leave.ErrCategoryNotFound) {
			api.Fail(w, http.StatusNotFound, "category_not_found", "leave category not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_balance_failed", "failed to compute balance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	pagination := shared.ParsePagination(r, 50, 200)
	status := r.URL.Query().Get("status")

	own, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
		return
	}

	var employeeID, managerEmployeeID string
	switch user.RoleName {
	case auth.RoleHR:
		employeeID = r.URL.Query().Get("employeeId")
	case auth.RoleManager:
		if r.URL.Query().Get("scope") == "team" {
			managerEmployeeID = own
		} else {
			employeeID = own
		}
	default:
		employeeID = own
	}

	requests, err := h.Service.ListRequests(r.Context(), employeeID, managerEmployeeID, status, pagination.Limit, pagination.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_requests_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	req, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "failed to load leave request", middleware.GetRequestID(r.Context()))
		return
	}

	if user.RoleName != auth.RoleHR {
		own, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
			return
		}
		if req.EmployeeID != own {
			managed, err := h.Service.IsManagerOf(r.Context(), own, req.EmployeeID)
			if err != nil || !managed {
				api.Fail(w, http.StatusForbidden, "forbidden", "not permitted to view this request", middleware.GetRequestID(r.Context()))
				return
			}
		}
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type createRequestPayload struct {
	CategoryID     string `json:"categoryId"`
	FromDate       string `json:"fromDate"`
	UntilDate      string `json:"untilDate"`
	FromDayType    string `json:"fromDayType"`
	UntilDayType   string `json:"untilDayType"`
	Reason         string `json:"reason"`
	CertificateRef string `json:"certificateRef"`
	SelfCertified  bool   `json:"selfCertified"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	own, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || own == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("categoryId", payload.CategoryID, "category is required")
	from, fromOK := v.Date("fromDate", payload.FromDate)
	until, untilOK := v.Date("untilDate", payload.UntilDate)
	if fromOK && untilOK {
		v.DateOrder("fromDate", from, "untilDate", until)
	}
	dayTypes := []string{string(leave.FullDay), string(leave.HalfDay)}
	if payload.FromDayType == "" {
		payload.FromDayType = string(leave.FullDay)
	}
	if payload.UntilDayType == "" {
		payload.UntilDayType = string(leave.FullDay)
	}
	v.Enum("fromDayType", payload.FromDayType, dayTypes, "must be full_day or half_day")
	v.Enum("untilDayType", payload.UntilDayType, dayTypes, "must be full_day or half_day")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.SubmitRequest(r.Context(), leave.Request{
		EmployeeID:     own,
		CategoryID:     payload.CategoryID,
		FromDate:       from,
		UntilDate:      until,
		FromDayType:    leave.DayType(payload.FromDayType),
		UntilDayType:   leave.DayType(payload.UntilDayType),
		Reason:         payload.Reason,
		CertificateRef: payload.CertificateRef,
		SelfCertified:  payload.SelfCertified,
	})
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrCategoryNotFound):
			api.Fail(w, http.StatusNotFound, "category_not_found", "leave category not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrCategoryInactive):
			api.Fail(w, http.StatusBadRequest, "category_inactive", "leave category is inactive", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrDegenerateSpan), errors.Is(err, leave.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_span", "requested dates resolve to zero days", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInsufficientBalance):
			api.Fail(w, http.StatusBadRequest, "insufficient_balance", "not enough remaining balance", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrExceedsAllotment):
			api.Fail(w, http.StatusBadRequest, "exceeds_allotment", "request exceeds category allotment", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_request_create_failed", "failed to create leave request", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Notify.Notify(r.Context(), user.UserID, notifications.TypeLeaveSubmitted, "Leave request submitted",
		"Your leave request for "+req.Days.String()+" day(s) is pending approval."); err != nil {
		log.Warn().Err(err).Msg("leave submit notification failed")
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusApproved)
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	requestID := chi.URLParam(r, "requestID")

	req, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "failed to load leave request", middleware.GetRequestID(r.Context()))
		return
	}

	if user.RoleName == auth.RoleManager {
		own, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to resolve employee", middleware.GetRequestID(r.Context()))
			return
		}
		managed, err := h.Service.IsManagerOf(r.Context(), own, req.EmployeeID)
		if err != nil || !managed {
			api.Fail(w, http.StatusForbidden, "forbidden", "not permitted to decide this request", middleware.GetRequestID(r.Context()))
			return
		}
	}

	var decided *leave.Request
	if status == leave.StatusApproved {
		decided, err = h.Service.ApproveRequest(r.Context(), requestID, user.UserID)
	} else {
		decided, err = h.Service.RejectRequest(r.Context(), requestID, user.UserID)
	}
	if err != nil {
		if errors.Is(err, leave.ErrInvalidState) {
			api.Fail(w, http.StatusConflict, "invalid_state", "request is not pending", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_decision_failed", "failed to record decision", middleware.GetRequestID(r.Context()))
		return
	}

	ntype := notifications.TypeLeaveApproved
	title := "Leave request approved"
	if status == leave.StatusRejected {
		ntype = notifications.TypeLeaveRejected
		title = "Leave request rejected"
	}
	if userID, err := h.Service.Directory.UserIDByEmployeeID(r.Context(), decided.EmployeeID); err == nil && userID != "" {
		if err := h.Notify.Notify(r.Context(), userID, ntype, title,
			"Your leave request from "+decided.FromDate.Format("2006-01-02")+" to "+decided.UntilDate.Format("2006-01-02")+" was decided."); err != nil {
			log.Warn().Err(err).Msg("leave decision notification failed")
		}
	}
	api.Success(w, decided, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	own, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil || own == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record for user", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.CancelRequest(r.Context(), chi.URLParam(r, "requestID"), own)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrRequestNotFound):
			api.Fail(w, http.StatusNotFound, "request_not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "only the requester can cancel", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "request is not pending", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_cancel_failed", "failed to cancel request", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}
