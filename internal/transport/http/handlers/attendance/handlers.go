package attendancehandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service   *attendance.Service
	Directory core.Directory
	Perms     middleware.PermissionStore
	Audit     audit.Recorder
}

func NewHandler(service *attendance.Service, directory core.Directory, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Directory: directory, Perms: perms, Audit: auditSvc}
}

type upsertRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required"`
	Date       string  `json:"date" validate:"required,date"`
	CheckIn    string  `json:"checkIn" validate:"timeofday"`
	CheckOut   string  `json:"checkOut" validate:"timeofday"`
	Status     string  `json:"status"`
	Note       *string `json:"note" validate:"omitempty,max=500"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermAttendanceSelf, h.Perms))
			r.Use(middleware.RequireEmployee)
			r.Post("/self-check-in", h.handleCheckIn)
			r.Post("/self-check-out", h.handleCheckOut)
			r.Get("/today", h.handleToday)
			r.Get("/my-history", h.handleMyHistory)
		})
		r.With(middleware.RequirePermission(auth.PermAttendanceManage, h.Perms)).Get("/history", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermAttendanceManage, h.Perms)).Put("/", h.handleUpsert)
		r.With(middleware.RequirePermission(auth.PermAttendanceManage, h.Perms)).Get("/export", h.handleExport)
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.SelfCheckIn(r.Context(), user.EmployeeID)
	if err != nil {
		api.FailError(w, err, "check_in_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionCheckIn, EntityType: "attendance", EntityID: rec.ID, After: rec})
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.SelfCheckOut(r.Context(), user.EmployeeID)
	if err != nil {
		api.FailError(w, err, "check_out_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionCheckOut, EntityType: "attendance", EntityID: rec.ID, After: rec})
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Today(r.Context(), user.EmployeeID)
	if err != nil {
		api.FailError(w, err, "attendance_today_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	h.writeHistory(w, r, user.EmployeeID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "employeeId", Reason: "is required"}})
		return
	}
	h.writeHistory(w, r, employeeID)
}

func (h *Handler) writeHistory(w http.ResponseWriter, r *http.Request, employeeID string) {
	v := shared.NewValidator()
	year, month := v.Period(r.URL.Query().Get("month"), r.URL.Query().Get("year"), h.Service.Clock.Now())
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	history, err := h.Service.MonthlyHistory(r.Context(), employeeID, year, month)
	if err != nil {
		api.FailError(w, err, "attendance_history_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload upsertRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date, h.Service.Clock.Now().Location())
	checkIn, errIn := attendance.ParseOptionalTimeOfDay(payload.CheckIn)
	checkOut, errOut := attendance.ParseOptionalTimeOfDay(payload.CheckOut)
	if errIn != nil {
		v.Add("checkIn", "must be a time in HH:MM format")
	}
	if errOut != nil {
		v.Add("checkOut", "must be a time in HH:MM format")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.AdminUpsert(r.Context(), attendance.UpsertInput{
		EmployeeID: payload.EmployeeID,
		Date:       date,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     payload.Status,
		Note:       payload.Note,
		ApprovedBy: user.UserID,
	})
	if err != nil {
		api.FailError(w, err, "attendance_upsert_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionAttendanceEdit, EntityType: "attendance", EntityID: rec.ID, After: rec})
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "is required")
	year, month := v.Period(r.URL.Query().Get("month"), r.URL.Query().Get("year"), h.Service.Clock.Now())
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Directory.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.FailError(w, err, "employee_lookup_failed", middleware.GetRequestID(r.Context()))
		return
	}
	history, err := h.Service.MonthlyHistory(r.Context(), employeeID, year, month)
	if err != nil {
		api.FailError(w, err, "attendance_history_failed", middleware.GetRequestID(r.Context()))
		return
	}

	var buf bytes.Buffer
	if err := attendance.WriteMonthlyXLSX(&buf, emp.FullName, history); err != nil {
		slog.Error("attendance export failed", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "attendance_export_failed", "failed to build export", middleware.GetRequestID(r.Context()))
		return
	}
	filename := fmt.Sprintf("attendance-%s-%d-%02d.xlsx", emp.Code, year, month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("attendance export write failed", "err", err)
	}
}

func (h *Handler) record(r *http.Request, entry audit.Entry) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("audit "+entry.Action+" failed", "err", err)
	}
}
