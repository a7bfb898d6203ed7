package operations

import (
	"context"
	"strings"
	"testing"

	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/events"
)

func TestGetPermissionReturnsDTOWithType(t *testing.T) {
	env := newTestEnv(t)
	handler := NewGetPermissionUseCase(env.factory, env.announcer).Handler()

	result := handler(context.Background(), GetPermissionQuery{ID: 1})
	if result.IsFailure() {
		t.Fatalf("Expected success, got %v", result.Error())
	}

	dto := result.Value()
	if dto.ID != 1 {
		t.Errorf("Expected id 1, got %d", dto.ID)
	}
	if dto.EmployeeForename != "Forename" || dto.EmployeeSurname != "Surname" {
		t.Errorf("Unexpected seeded names: %q %q", dto.EmployeeForename, dto.EmployeeSurname)
	}
	if dto.PermissionType == nil || dto.PermissionType.Description != "First type" {
		t.Errorf("Expected type relation populated, got %+v", dto.PermissionType)
	}

	if len(env.announcer.operations) != 1 || env.announcer.operations[0] != events.OperationGet {
		t.Errorf("Expected one %q announcement, got %v", events.OperationGet, env.announcer.operations)
	}
}

func TestGetPermissionUnknownID(t *testing.T) {
	env := newTestEnv(t)
	handler := NewGetPermissionUseCase(env.factory, env.announcer).Handler()

	result := handler(context.Background(), GetPermissionQuery{ID: 42})
	if result.IsSuccess() {
		t.Fatal("Expected rejection for unknown id")
	}
	ucErr := result.Error()
	if ucErr.Kind != common.ErrorKindValidation {
		t.Errorf("Expected validation kind, got %v", ucErr.Kind)
	}
	if ucErr.Code != common.ErrCodePermissionNotFound {
		t.Errorf("Expected %s, got %s", common.ErrCodePermissionNotFound, ucErr.Code)
	}
	if !strings.Contains(ucErr.Message, "42") {
		t.Errorf("Expected the id in the message, got %q", ucErr.Message)
	}
	if len(env.announcer.operations) != 0 {
		t.Errorf("Expected no announcement for a rejected read, got %v", env.announcer.operations)
	}
}

func TestListPermissionsReturnsAllRows(t *testing.T) {
	env := newTestEnv(t)

	create := NewRequestPermissionUseCase(env.factory, env.gateway, env.announcer).Handler()
	if result := create(context.Background(), validCommand()); result.IsFailure() {
		t.Fatalf("Setup create failed: %v", result.Error())
	}

	handler := NewListPermissionsUseCase(env.factory, env.announcer).Handler()
	result := handler(context.Background(), ListPermissionsQuery{})
	if result.IsFailure() {
		t.Fatalf("Expected success, got %v", result.Error())
	}

	dtos := result.Value()
	if len(dtos) != 2 {
		t.Fatalf("Expected 2 permissions, got %d", len(dtos))
	}
	for _, dto := range dtos {
		if dto.PermissionType == nil {
			t.Errorf("Expected type relation populated for id %d", dto.ID)
		}
	}

	// One announcement from the setup create, one from the list read.
	if len(env.announcer.operations) != 2 || env.announcer.operations[1] != events.OperationGet {
		t.Errorf("Unexpected announcements: %v", env.announcer.operations)
	}
}

func TestListPermissionsEmptyFilterlessRead(t *testing.T) {
	env := newTestEnv(t)
	handler := NewListPermissionsUseCase(env.factory, env.announcer).Handler()

	result := handler(context.Background(), ListPermissionsQuery{})
	if result.IsFailure() {
		t.Fatalf("Expected success, got %v", result.Error())
	}
	if len(result.Value()) != 1 {
		t.Errorf("Expected the seeded row only, got %d", len(result.Value()))
	}
}
