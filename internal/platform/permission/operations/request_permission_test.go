package operations

import (
	"context"
	"testing"

	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/events"
)

func TestRequestPermissionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()

	result := handler(context.Background(), validCommand())
	if result.IsFailure() {
		t.Fatalf("Expected success, got %v", result.Error())
	}
	id := result.Value()
	if id == 0 {
		t.Fatal("Expected store-assigned id")
	}

	dto := env.fetch(t, id)
	if dto.EmployeeForename != "Alice" || dto.EmployeeSurname != "Smith" {
		t.Errorf("Unexpected names: %q %q", dto.EmployeeForename, dto.EmployeeSurname)
	}
	if dto.PermissionType == nil || dto.PermissionType.Description != "Second type" {
		t.Errorf("Expected type relation populated, got %+v", dto.PermissionType)
	}
}

func TestRequestPermissionIndexesAndAnnounces(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()

	result := handler(context.Background(), validCommand())
	if result.IsFailure() {
		t.Fatalf("Expected success, got %v", result.Error())
	}

	if len(env.gateway.indexed) != 1 {
		t.Fatalf("Expected 1 indexed document, got %d", len(env.gateway.indexed))
	}
	doc := env.gateway.indexed[0]
	if doc.ID != result.Value() {
		t.Errorf("Expected document keyed by %d, got %d", result.Value(), doc.ID)
	}
	if doc.TypeDescription != "Second type" {
		t.Errorf("Expected denormalized type description, got %q", doc.TypeDescription)
	}

	if len(env.announcer.operations) != 1 || env.announcer.operations[0] != events.OperationRequest {
		t.Errorf("Expected one %q announcement, got %v", events.OperationRequest, env.announcer.operations)
	}

	// The index upsert must happen before the event publish.
	if len(env.log) != 2 || env.log[0] != "index" || env.log[1] != "announce" {
		t.Errorf("Unexpected propagation order: %v", env.log)
	}
}

func TestRequestPermissionAggregatesAllValidationFailures(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()

	cmd := RequestPermissionCommand{
		EmployeeForename: "",
		EmployeeSurname:  "Smith",
		PermissionTypeID: 0,
		PermissionDate:   "not-a-date",
	}
	result := handler(context.Background(), cmd)
	if result.IsSuccess() {
		t.Fatal("Expected validation rejection")
	}
	if result.Error().Kind != common.ErrorKindValidation {
		t.Errorf("Expected validation kind, got %v", result.Error().Kind)
	}
	msgs := common.ValidationMessages(result.Error())
	if len(msgs) != 3 {
		t.Errorf("Expected 3 messages, got %d: %v", len(msgs), msgs)
	}

	if len(env.gateway.indexed) != 0 || len(env.announcer.operations) != 0 {
		t.Error("Expected no propagation on rejected input")
	}
}

func TestRequestPermissionRejectsPastDate(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()

	cmd := validCommand()
	cmd.PermissionDate = "2020-01-01"
	result := handler(context.Background(), cmd)
	if result.IsSuccess() {
		t.Fatal("Expected rejection of past date")
	}
	msgs := common.ValidationMessages(result.Error())
	if len(msgs) != 1 || msgs[0] != "permission date must not be in the past" {
		t.Errorf("Unexpected messages: %v", msgs)
	}
}

func TestRequestPermissionUnackedPublishStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.announcer.ack = false
	handler := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()

	result := handler(context.Background(), validCommand())
	if result.IsFailure() {
		t.Fatalf("Expected success despite unacked publish, got %v", result.Error())
	}
	env.fetch(t, result.Value())
}

func TestRequestPermissionRefetchStorageFaultIsFatal(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRequestPermissionUseCase(env.brokenRefetchFactory(t), env.gateway, env.announcer).Handler()

	result := handler(context.Background(), validCommand())
	if result.IsSuccess() {
		t.Fatal("Expected failure when the post-commit read back fails")
	}
	if result.Error().Kind != common.ErrorKindInternal {
		t.Errorf("Expected internal kind, got %v", result.Error().Kind)
	}
	if result.Error().Code != common.ErrCodeOperationFailed {
		t.Errorf("Expected %s, got %s", common.ErrCodeOperationFailed, result.Error().Code)
	}

	// The faulted read back must not be mistaken for a missing row: no
	// propagation happened, but the commit itself already landed.
	if len(env.gateway.indexed) != 0 || len(env.announcer.operations) != 0 {
		t.Error("Expected no propagation after a faulted read back")
	}
	if got := env.countRows(t); got != 2 {
		t.Errorf("Expected the committed row to persist, got %d rows", got)
	}
}

func TestRequestPermissionUnknownTypeFailsCommit(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()

	cmd := validCommand()
	cmd.PermissionTypeID = 999
	result := handler(context.Background(), cmd)
	if result.IsSuccess() {
		t.Fatal("Expected commit failure for unknown type")
	}
	if result.Error().Code != common.ErrCodeCommitFailed {
		t.Errorf("Expected %s, got %s", common.ErrCodeCommitFailed, result.Error().Code)
	}
	if len(env.gateway.indexed) != 0 || len(env.announcer.operations) != 0 {
		t.Error("Expected no propagation when the commit failed")
	}
}
