package reportshandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/reports"
	"hrms/internal/platform/jobs"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Jobs    *jobs.Service
	// ExpireContracts is the contract expiry sweep, run on demand.
	ExpireContracts jobs.RunFunc
	Perms           middleware.PermissionStore
	Audit           audit.Recorder
}

func NewHandler(service *reports.Service, jobsSvc *jobs.Service, expire jobs.RunFunc, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc, ExpireContracts: expire, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/reports/dashboard", h.handleDashboard)
	r.Route("/jobs", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermJobsRun, h.Perms))
		r.Get("/runs", h.handleListRuns)
		r.Post("/contract-expiry/run", h.handleRunContractExpiry)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Dashboard(r.Context())
	if err != nil {
		api.FailError(w, err, "dashboard_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	loc := h.Service.Clock.Now().Location()
	v := shared.NewValidator()
	filter := reports.JobRunFilter{
		JobType:     r.URL.Query().Get("jobType"),
		Status:      r.URL.Query().Get("status"),
		StartedFrom: v.OptionalDate("startedFrom", r.URL.Query().Get("startedFrom"), loc),
		StartedTo:   v.OptionalDate("startedTo", r.URL.Query().Get("startedTo"), loc),
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	runs, total, err := h.Service.JobRuns(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, "job_runs_failed", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunContractExpiry(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobContractExpiry, h.ExpireContracts)
	if err != nil {
		api.FailError(w, err, "contract_expiry_failed", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), audit.Entry{ActorID: user.UserID, Action: audit.ActionContractsExpire, EntityType: "job", EntityID: jobs.JobContractExpiry, After: details}); err != nil {
			slog.Warn("audit "+audit.ActionContractsExpire+" failed", "err", err)
		}
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}
