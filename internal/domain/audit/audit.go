package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hrms/internal/platform/db"
	"hrms/internal/requestctx"
)

const (
	ActionCheckIn         = "attendance.check_in"
	ActionCheckOut        = "attendance.check_out"
	ActionAttendanceEdit  = "attendance.upsert"
	ActionLeaveCreate     = "leave.create"
	ActionLeaveApprove    = "leave.approve"
	ActionLeaveReject     = "leave.reject"
	ActionLeaveCancel     = "leave.cancel"
	ActionLeaveEdit       = "leave.edit"
	ActionLeaveDelete     = "leave.delete"
	ActionSalaryCreate    = "salary.create"
	ActionSalaryUpdate    = "salary.update"
	ActionSalaryApprove   = "salary.approve"
	ActionSalaryPay       = "salary.pay"
	ActionSalaryDelete    = "salary.delete"
	ActionContractCreate  = "contract.create"
	ActionContractEdit    = "contract.edit"
	ActionContractSign    = "contract.sign"
	ActionContractCancel  = "contract.cancel"
	ActionContractDelete  = "contract.delete"
	ActionContractsExpire = "contract.expire_sweep"
)

// Entry is one state change to record. Before and After are marshalled as JSON.
type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorUser  string
}

// Recorder is what handlers need to write audit events.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

type Service struct {
	DB db.Querier
}

func New(q db.Querier) *Service {
	return &Service{DB: q}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	beforeJSON, err := marshalState(entry.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalState(entry.After)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (id, actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, uuid.NewString(), entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, beforeJSON, afterJSON,
		requestctx.GetRequestID(ctx), requestctx.GetClientIP(ctx))
	return err
}

func marshalState(state any) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "id, actor_user_id, action, entity_type, entity_id, request_id, ip, created_at"
	if includeDetails {
		selectCols += ", before_json, after_json"
	}
	query, args := buildBaseQuery("SELECT "+selectCols, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_events WHERE 1=1"
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}
	add("action", filter.Action)
	add("entity_type", filter.EntityType)
	add("entity_id", filter.EntityID)
	add("actor_user_id", filter.ActorUser)
	return query, args
}
