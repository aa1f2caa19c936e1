package contracthandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/contract"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *contract.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
	// Notifier is optional; a nil value disables employee notifications.
	Notifier notifications.Sender
}

func NewHandler(service *contract.Service, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

type contractRequest struct {
	EmployeeID   string `json:"employeeId"`
	ContractType string `json:"contractType" validate:"required"`
	StartDate    string `json:"startDate" validate:"required,date"`
	EndDate      string `json:"endDate" validate:"omitempty,date"`
	Salary       int64  `json:"salary"`
	Note         string `json:"note" validate:"max=1000"`
}

type signRequest struct {
	SignedBy string `json:"signedBy" validate:"max=200"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermContractRead, h.Perms)
	write := middleware.RequirePermission(auth.PermContractWrite, h.Perms)
	r.Route("/contracts", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(read).Get("/{contractID}", h.handleGet)
		r.With(write).Put("/{contractID}", h.handleEdit)
		r.With(write).Delete("/{contractID}", h.handleDelete)
		r.With(write).Post("/{contractID}/sign", h.handleSign)
		r.With(write).Post("/{contractID}/cancel", h.handleCancel)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	result, err := h.Service.List(r.Context(), contract.Filter{
		EmployeeID:   r.URL.Query().Get("employeeId"),
		Status:       r.URL.Query().Get("status"),
		ContractType: r.URL.Query().Get("contractType"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		api.FailError(w, err, "contract_list_failed", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	input, ok := h.decodeInput(w, r, true)
	if !ok {
		return
	}
	c, err := h.Service.Create(r.Context(), input)
	if err != nil {
		api.FailError(w, err, "contract_create_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionContractCreate, EntityType: "contract", EntityID: c.ID, After: c})
	api.Created(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Get(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		api.FailError(w, err, "contract_get_failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	input, ok := h.decodeInput(w, r, false)
	if !ok {
		return
	}
	c, err := h.Service.Edit(r.Context(), chi.URLParam(r, "contractID"), input)
	if err != nil {
		api.FailError(w, err, "contract_edit_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionContractEdit, EntityType: "contract", EntityID: c.ID, After: c})
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "contractID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.FailError(w, err, "contract_delete_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionContractDelete, EntityType: "contract", EntityID: id})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

// handleSign activates a pending contract. The signer defaults to the acting user.
func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload signRequest
	if r.ContentLength != 0 && !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	signer := payload.SignedBy
	if signer == "" {
		signer = user.UserID
	}
	c, err := h.Service.Sign(r.Context(), chi.URLParam(r, "contractID"), signer)
	if err != nil {
		api.FailError(w, err, "contract_sign_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionContractSign,
		EntityType: "contract",
		EntityID:   c.ID,
		Before:     map[string]string{"status": contract.StatusPendingSignature},
		After:      map[string]string{"status": c.Status, "signedBy": c.SignedBy},
	})
	h.notify(r, c.EmployeeID, notifications.TypeContractSigned, "Contract "+c.ContractNumber+" signed",
		fmt.Sprintf("Your %s contract %s starting %s is now active.", c.ContractType, c.ContractNumber, c.StartDate.Format(shared.DateLayout)))
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	c, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		api.FailError(w, err, "contract_cancel_failed", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, audit.Entry{ActorID: user.UserID, Action: audit.ActionContractCancel, EntityType: "contract", EntityID: c.ID, After: map[string]string{"status": c.Status}})
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request, requireEmployee bool) (contract.Input, bool) {
	var payload contractRequest
	if !shared.Decode(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return contract.Input{}, false
	}
	v := shared.NewValidator()
	if requireEmployee {
		v.Required("employeeId", payload.EmployeeID, "is required")
	}
	loc := h.location()
	start, _ := v.Date("startDate", payload.StartDate, loc)
	end := v.OptionalDate("endDate", payload.EndDate, loc)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return contract.Input{}, false
	}
	return contract.Input{
		EmployeeID:   payload.EmployeeID,
		ContractType: payload.ContractType,
		StartDate:    start,
		EndDate:      end,
		Salary:       payload.Salary,
		Note:         payload.Note,
	}, true
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
