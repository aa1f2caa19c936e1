package payrollhandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service   *payroll.Service
	Directory core.Directory
	Perms     middleware.PermissionStore
	Audit     audit.Recorder
	Notifier  notifications.Sender
}

func NewHandler(service *payroll.Service, directory core.Directory, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Directory: directory, Perms: perms, Audit: auditSvc}
}

type recordRequest struct {
	EmployeeID            string             `json:"employeeId"`
	Month                 int                `json:"month"`
	Year                  int                `json:"year"`
	BaseSalary            *int64             `json:"baseSalary"`
	Allowances            payroll.Allowances `json:"allowances"`
	Bonus                 int64              `json:"bonus"`
	BonusNote             string             `json:"bonusNote" validate:"max=500"`
	Tax                   int64              `json:"tax"`
	UnemploymentInsurance int64              `json:"unemploymentInsurance"`
	OtherDeduction        int64              `json:"otherDeduction"`
	OvertimeHours         *float64           `json:"overtimeHours" validate:"omitempty,gte=0"`
	OvertimePay           int64              `json:"overtimePay"`
	WorkingDays           int                `json:"workingDays" validate:"gte=0,lte=31"`
	ActualWorkingDays     *float64           `json:"actualWorkingDays" validate:"omitempty,gte=0,lte=31"`
	LeaveDays             int                `json:"leaveDays" validate:"gte=0,lte=31"`
	Note                  string             `json:"note" validate:"max=1000"`
}

func (p recordRequest) input() payroll.RecordInput {
	return payroll.RecordInput{
		EmployeeID:            p.EmployeeID,
		Month:                 p.Month,
		Year:                  p.Year,
		BaseSalary:            p.BaseSalary,
		Allowances:            p.Allowances,
		Bonus:                 p.Bonus,
		BonusNote:             p.BonusNote,
		Tax:                   p.Tax,
		UnemploymentInsurance: p.UnemploymentInsurance,
		OtherDeduction:        p.OtherDeduction,
		OvertimeHours:         p.OvertimeHours,
		OvertimePay:           p.OvertimePay,
		WorkingDays:           p.WorkingDays,
		ActualWorkingDays:     p.ActualWorkingDays,
		LeaveDays:             p.LeaveDays,
		Note:                  p.Note,
	}
}

// updateRequest leaves absent fields untouched on the stored record.
type updateRequest struct {
	BaseSalary            *int64              `json:"baseSalary"`
	Allowances            *payroll.Allowances `json:"allowances"`
	Bonus                 *int64              `json:"bonus"`
	BonusNote             *string             `json:"bonusNote" validate:"omitempty,max=500"`
	Tax                   *int64              `json:"tax"`
	UnemploymentInsurance *int64              `json:"unemploymentInsurance"`
	OtherDeduction        *int64              `json:"otherDeduction"`
	OvertimeHours         *float64            `json:"overtimeHours" validate:"omitempty,gte=0"`
	OvertimePay           *int64              `json:"overtimePay"`
	WorkingDays           *int                `json:"workingDays" validate:"omitempty,gte=0,lte=31"`
	ActualWorkingDays     *float64            `json:"actualWorkingDays" validate:"omitempty,gte=0,lte=31"`
	LeaveDays             *int                `json:"leaveDays" validate:"omitempty,gte=0,lte=31"`
	Note                  *string             `json:"note" validate:"omitempty,max=1000"`
}

func (p updateRequest) patch() payroll.RecordPatch {
	return payroll.RecordPatch{
		BaseSalary:            p.BaseSalary,
		Allowances:            p.Allowances,
		Bonus:                 p.Bonus,
		BonusNote:             p.BonusNote,
		Tax:                   p.Tax,
		UnemploymentInsurance: p.UnemploymentInsurance,
		OtherDeduction:        p.OtherDeduction,
		OvertimeHours:         p.OvertimeHours,
		OvertimePay:           p.OvertimePay,
		WorkingDays:           p.WorkingDays,
		ActualWorkingDays:     p.ActualWorkingDays,
		LeaveDays:             p.LeaveDays,
		Note:                  p.Note,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	manage := middleware.RequirePermission(auth.PermSalaryManage, h.Perms)
	self := middleware.RequirePermission(auth.PermSalarySelf, h.Perms)
	r.Route("/salaries", func(r chi.Router) {
		r.With(manage).Post("/calculate", h.handleCalculate)
		r.With(manage).Get("/", h.handleList)
		r.With(manage).Post("/", h.handleCreate)
		r.With(self, middleware.RequireEmployee).Get("/my", h.handleListMine)
		r.With(manage).Get("/check-exist", h.handleCheckExist)
		r.With(self).Get("/{salaryID}", h.handleGet)
		r.With(manage).Put("/{salaryID}", h.handleUpdate)
		r.With(manage).Delete("/{salaryID}", h.handleDelete)
		r.With(manage).Post("/{salaryID}/approve", h.handleApprove)
		r.With(manage).Post("/{salaryID}/pay", h.handlePay)
		r.With(self).Get("/{salaryID}/payslip", h.handlePayslip)
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload payroll.SalaryInput
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	breakdown, err := h.Service.Calculate(payload)
	if err != nil {
		api.FailError(w, err, "salary_calculate_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, breakdown, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	v := shared.NewValidator()
	filter := payroll.Filter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     r.URL.Query().Get("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if r.URL.Query().Get("month") != "" || r.URL.Query().Get("year") != "" {
		filter.Year, filter.Month = v.Period(r.URL.Query().Get("month"), r.URL.Query().Get("year"), h.Service.Clock.Now())
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, "salary_list_failed", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload recordRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	if payload.Month < 1 || payload.Month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	if payload.Year < 1900 {
		v.Add("year", "must be a four digit year")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.Create(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, "salary_create_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionSalaryCreate, EntityType: "salary_record", EntityID: rec.ID, After: rec})
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	records, err := h.Service.ListForEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		api.FailError(w, err, "salary_list_failed", middleware.GetRequestID(r.Context()))
		return
	}
	if records == nil {
		records = []payroll.Record{}
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckExist(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "is required")
	v.Required("month", r.URL.Query().Get("month"), "is required")
	v.Required("year", r.URL.Query().Get("year"), "is required")
	year, month := v.Period(r.URL.Query().Get("month"), r.URL.Query().Get("year"), h.Service.Clock.Now())
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	rec, exists, err := h.Service.CheckExist(r.Context(), employeeID, month, year)
	if err != nil {
		api.FailError(w, err, "salary_check_failed", middleware.GetRequestID(r.Context()))
		return
	}
	data := map[string]any{"exists": exists}
	if exists {
		data["salary"] = rec
	}
	api.Success(w, data, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload updateRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	rec, err := h.Service.Update(r.Context(), chi.URLParam(r, "salaryID"), payload.patch())
	if err != nil {
		api.FailError(w, err, "salary_update_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionSalaryUpdate, EntityType: "salary_record", EntityID: rec.ID, After: rec})
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "salaryID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.FailError(w, err, "salary_delete_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionSalaryDelete, EntityType: "salary_record", EntityID: id})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Approve(r.Context(), chi.URLParam(r, "salaryID"), user.UserID)
	if err != nil {
		api.FailError(w, err, "salary_approve_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionSalaryApprove,
		EntityType: "salary_record",
		EntityID:   rec.ID,
		Before:     map[string]string{"status": payroll.StatusPending},
		After:      map[string]string{"status": rec.Status},
	})
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.MarkPaid(r.Context(), chi.URLParam(r, "salaryID"))
	if err != nil {
		api.FailError(w, err, "salary_pay_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionSalaryPay,
		EntityType: "salary_record",
		EntityID:   rec.ID,
		Before:     map[string]string{"status": payroll.StatusApproved},
		After:      map[string]string{"status": rec.Status},
	})
	h.notify(r, rec.EmployeeID, notifications.TypeSalaryPaid, fmt.Sprintf("Salary %02d/%d paid", rec.Month, rec.Year),
		fmt.Sprintf("Your salary for %02d/%d has been paid. Net amount: %d.", rec.Month, rec.Year, rec.NetSalary))
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	emp, err := h.Directory.GetEmployee(r.Context(), rec.EmployeeID)
	if err != nil {
		api.FailError(w, err, "employee_lookup_failed", middleware.GetRequestID(r.Context()))
		return
	}
	var buf bytes.Buffer
	if err := payroll.WritePayslipPDF(&buf, emp, rec); err != nil {
		slog.Error("payslip render failed", "salaryId", rec.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s-%d-%02d.pdf", emp.Code, rec.Year, rec.Month))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("payslip write failed", "err", err)
	}
}

// loadVisible fetches the record in the URL. Callers without salary.manage
// only see their own records.
func (h *Handler) loadVisible(w http.ResponseWriter, r *http.Request) (payroll.Record, bool) {
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "salaryID"))
	if err != nil {
		api.FailError(w, err, "salary_get_failed", middleware.GetRequestID(r.Context()))
		return payroll.Record{}, false
	}
	if user.EmployeeID != "" && rec.EmployeeID == user.EmployeeID {
		return rec, true
	}
	canManage, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermSalaryManage)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", middleware.GetRequestID(r.Context()))
		return payroll.Record{}, false
	}
	if !canManage {
		api.Fail(w, http.StatusForbidden, "forbidden", "salary record belongs to another employee", middleware.GetRequestID(r.Context()))
		return payroll.Record{}, false
	}
	return rec, true
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
