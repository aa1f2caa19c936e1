package audit

import (
	"context"
	"testing"
)

func TestBuildBaseQueryNumbersPlaceholders(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{EntityType: "leave_request", ActorUser: "u1"})
	want := "SELECT COUNT(1) FROM audit_events WHERE 1=1 AND entity_type = $1 AND actor_user_id = $2"
	if query != want {
		t.Fatalf("unexpected query:\n%s", query)
	}
	if len(args) != 2 || args[0] != "leave_request" || args[1] != "u1" {
		t.Fatalf("unexpected args: %v", args)
	}

	query, args = buildBaseQuery("SELECT id", Filter{})
	if query != "SELECT id FROM audit_events WHERE 1=1" || len(args) != 0 {
		t.Fatalf("unexpected unfiltered query %q %v", query, args)
	}
}

func TestMarshalStateSkipsNil(t *testing.T) {
	payload, err := marshalState(nil)
	if err != nil || payload != nil {
		t.Fatalf("expected nil payload, got %q %v", payload, err)
	}
	payload, err = marshalState(map[string]string{"status": "approved"})
	if err != nil || string(payload) != `{"status":"approved"}` {
		t.Fatalf("unexpected payload %q %v", payload, err)
	}
}

func TestMemoryRecorder(t *testing.T) {
	var rec Recorder = &MemoryRecorder{}
	_ = rec.Record(context.Background(), Entry{Action: ActionLeaveApprove})
	_ = rec.Record(context.Background(), Entry{Action: ActionLeaveReject})
	actions := rec.(*MemoryRecorder).Actions()
	if len(actions) != 2 || actions[1] != ActionLeaveReject {
		t.Fatalf("unexpected actions: %v", actions)
	}
}
