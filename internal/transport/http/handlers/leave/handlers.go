package leavehandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
	// Notifier is optional; a nil value disables employee notifications.
	Notifier notifications.Sender
}

func NewHandler(service *leave.Service, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

type createRequest struct {
	EmployeeID string `json:"employeeId"`
	LeaveType  string `json:"leaveType" validate:"required"`
	StartDate  string `json:"startDate" validate:"required,date"`
	EndDate    string `json:"endDate" validate:"required,date"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

type editRequest struct {
	LeaveType *string `json:"leaveType"`
	StartDate *string `json:"startDate" validate:"omitempty,date"`
	EndDate   *string `json:"endDate" validate:"omitempty,date"`
	Reason    *string `json:"reason" validate:"omitempty,max=1000"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Route("/my-requests", func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermLeaveSelf, h.Perms))
			r.Use(middleware.RequireEmployee)
			r.Get("/", h.handleListMine)
			r.Post("/", h.handleCreateMine)
			r.Put("/{requestID}", h.handleEditMine)
			r.Post("/{requestID}/cancel", h.handleCancelMine)
			r.Delete("/{requestID}", h.handleDeleteMine)
		})
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/{requestID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Put("/{requestID}", h.handleEdit)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Delete("/{requestID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/{requestID}/reject", h.handleReject)
	})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	result, err := h.Service.List(r.Context(), leave.Filter{
		EmployeeID: user.EmployeeID,
		Status:     r.URL.Query().Get("status"),
		LeaveType:  r.URL.Query().Get("leaveType"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "leave_list_failed", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	h.create(w, r, user, user.EmployeeID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	h.create(w, r, user, "")
}

// create files a request for employeeID, or for the payload's employee when employeeID is empty.
func (h *Handler) create(w http.ResponseWriter, r *http.Request, user auth.UserContext, employeeID string) {
	var payload createRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	if employeeID == "" {
		employeeID = payload.EmployeeID
	}
	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "is required")
	loc := h.location()
	start, _ := v.Date("startDate", payload.StartDate, loc)
	end, _ := v.Date("endDate", payload.EndDate, loc)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), leave.CreateInput{
		EmployeeID: employeeID,
		LeaveType:  payload.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     payload.Reason,
	})
	if err != nil {
		api.FailError(w, err, "leave_create_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionLeaveCreate, EntityType: "leave_request", EntityID: req.ID, After: req})
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEditMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	input, ok := h.decodeEdit(w, r)
	if !ok {
		return
	}
	req, err := h.Service.SelfEdit(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID, input)
	h.respondEdit(w, r, user, req, err)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	input, ok := h.decodeEdit(w, r)
	if !ok {
		return
	}
	req, err := h.Service.Edit(r.Context(), chi.URLParam(r, "requestID"), input)
	h.respondEdit(w, r, user, req, err)
}

func (h *Handler) decodeEdit(w http.ResponseWriter, r *http.Request) (leave.EditInput, bool) {
	var payload editRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return leave.EditInput{}, false
	}
	v := shared.NewValidator()
	loc := h.location()
	input := leave.EditInput{LeaveType: payload.LeaveType, Reason: payload.Reason}
	if payload.StartDate != nil {
		input.StartDate = v.OptionalDate("startDate", *payload.StartDate, loc)
	}
	if payload.EndDate != nil {
		input.EndDate = v.OptionalDate("endDate", *payload.EndDate, loc)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return leave.EditInput{}, false
	}
	return input, true
}

func (h *Handler) respondEdit(w http.ResponseWriter, r *http.Request, user auth.UserContext, req leave.Request, err error) {
	if err != nil {
		api.FailError(w, err, "leave_edit_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionLeaveEdit, EntityType: "leave_request", EntityID: req.ID, After: req})
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancelMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID)
	if err != nil {
		api.FailError(w, err, "leave_cancel_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionLeaveCancel, EntityType: "leave_request", EntityID: req.ID, After: map[string]string{"status": req.Status}})
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "requestID")
	if err := h.Service.DeleteOwn(r.Context(), id, user.EmployeeID); err != nil {
		api.FailError(w, err, "leave_delete_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionLeaveDelete, EntityType: "leave_request", EntityID: id})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	result, err := h.Service.List(r.Context(), leave.Filter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     r.URL.Query().Get("status"),
		LeaveType:  r.URL.Query().Get("leaveType"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "leave_list_failed", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		api.FailError(w, err, "leave_get_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "requestID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.FailError(w, err, "leave_delete_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionLeaveDelete, EntityType: "leave_request", EntityID: id})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.Approve(r.Context(), chi.URLParam(r, "requestID"), user.UserID)
	if err != nil {
		api.FailError(w, err, "leave_approve_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionLeaveApprove,
		EntityType: "leave_request",
		EntityID:   req.ID,
		Before:     map[string]string{"status": leave.StatusPending},
		After:      map[string]string{"status": req.Status},
	})
	h.notify(r, req.EmployeeID, notifications.TypeLeaveApproved, "Leave request approved",
		fmt.Sprintf("Your %s leave from %s to %s (%d days) was approved.", req.LeaveType, req.StartDate.Format(shared.DateLayout), req.EndDate.Format(shared.DateLayout), req.TotalDays))
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload rejectRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	req, err := h.Service.Reject(r.Context(), chi.URLParam(r, "requestID"), user.UserID, payload.Reason)
	if err != nil {
		api.FailError(w, err, "leave_reject_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionLeaveReject,
		EntityType: "leave_request",
		EntityID:   req.ID,
		Before:     map[string]string{"status": leave.StatusPending},
		After:      map[string]string{"status": req.Status, "rejectReason": req.RejectReason},
	})
	h.notify(r, req.EmployeeID, notifications.TypeLeaveRejected, "Leave request rejected",
		fmt.Sprintf("Your %s leave from %s to %s was rejected: %s", req.LeaveType, req.StartDate.Format(shared.DateLayout), req.EndDate.Format(shared.DateLayout), req.RejectReason))
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) location() *time.Location {
	return h.Service.Clock.Now().Location()
}

func (h *Handler) record(r *http.Request, entry audit.Entry) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("audit "+entry.Action+" failed", "err", err)
	}
}

func (h *Handler) notify(r *http.Request, employeeID, ntype, title, body string) {
	if h.Notifier == nil {
		return
	}
	if err := h.Notifier.Notify(r.Context(), employeeID, ntype, title, body); err != nil {
		slog.Warn("notify "+ntype+" failed", "employeeId", employeeID, "err", err)
	}
}
