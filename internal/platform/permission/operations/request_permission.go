// Package operations contains the permission use cases: request (create),
// modify, and the two read shapes. Each use case follows the same policy:
// the relational commit is the source of truth, then the search index and
// the event stream are updated best-effort, in that order.
package operations

import (
	"context"
	"log/slog"

	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/events"
	"go.permitdesk.tech/internal/platform/permission"
	"go.permitdesk.tech/internal/search"
)

// hasFields is satisfied by commands carrying the shared field shape.
type hasFields interface {
	fields() permissionFields
}

// fieldRule lifts a field-level rule to a command-level rule.
func fieldRule[Req hasFields](rule func(permissionFields) (string, bool)) common.Rule[Req] {
	return func(req Req) (string, bool) {
		return rule(req.fields())
	}
}

// RequestPermissionCommand contains the data needed to create a permission
// request.
type RequestPermissionCommand struct {
	EmployeeForename string `json:"employeeForename"`
	EmployeeSurname  string `json:"employeeSurname"`
	PermissionTypeID int64  `json:"permissionTypeId"`
	PermissionDate   string `json:"permissionDate"`
}

func (c RequestPermissionCommand) fields() permissionFields {
	return permissionFields{
		EmployeeForename: c.EmployeeForename,
		EmployeeSurname:  c.EmployeeSurname,
		PermissionTypeID: c.PermissionTypeID,
		PermissionDate:   c.PermissionDate,
	}
}

// RequestPermissionUseCase handles creating a new permission request
type RequestPermissionUseCase struct {
	uow       permission.Factory
	index     search.Gateway
	announcer events.Announcer
}

// NewRequestPermissionUseCase creates a new RequestPermissionUseCase
func NewRequestPermissionUseCase(uow permission.Factory, index search.Gateway, announcer events.Announcer) *RequestPermissionUseCase {
	return &RequestPermissionUseCase{
		uow:       uow,
		index:     index,
		announcer: announcer,
	}
}

// Handler returns the use case wrapped in its pipeline stages
func (uc *RequestPermissionUseCase) Handler() common.HandlerFunc[RequestPermissionCommand, int64] {
	return common.Chain(uc.Execute,
		common.LoggingStage[RequestPermissionCommand, int64]("RequestPermission"),
		common.MetricsStage[RequestPermissionCommand, int64]("request"),
		common.ValidationStage[RequestPermissionCommand, int64](
			fieldRule[RequestPermissionCommand](requireForename),
			fieldRule[RequestPermissionCommand](forenameLength),
			fieldRule[RequestPermissionCommand](requireSurname),
			fieldRule[RequestPermissionCommand](surnameLength),
			fieldRule[RequestPermissionCommand](validTypeID),
			fieldRule[RequestPermissionCommand](validDate),
		),
	)
}

// Execute creates the permission request and returns the assigned id
func (uc *RequestPermissionUseCase) Execute(ctx context.Context, cmd RequestPermissionCommand) common.Result[int64] {
	uow := uc.uow()
	defer uow.Close()

	entity := &permission.Request{
		EmployeeForename: cmd.EmployeeForename,
		EmployeeSurname:  cmd.EmployeeSurname,
		PermissionTypeID: cmd.PermissionTypeID,
		PermissionDate:   mustParseDate(cmd.PermissionDate),
	}

	if _, err := uow.Requests().Add(ctx, entity); err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to stage permission request",
				map[string]any{"error": err.Error()}),
		)
	}

	if _, err := uow.Commit(ctx); err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeCommitFailed,
				"Failed to commit permission request",
				map[string]any{"error": err.Error()}),
		)
	}

	if err := propagate(ctx, uc.uow, uc.index, uc.announcer, entity.ID, events.OperationRequest); err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to read back committed permission",
				map[string]any{"id": entity.ID, "error": err.Error()}),
		)
	}

	return common.Success(entity.ID)
}

// propagate re-fetches the committed row with its type relation, upserts
// the search document, and publishes the operation message. Runs strictly
// after the relational commit, never reordered ahead of a prior step.
//
// Failure handling is asymmetric on purpose: a storage error on the
// re-fetch is returned as fatal, while a missing row only skips the index
// and event steps with a warning. Index and publish failures never reach
// the caller.
func propagate(
	ctx context.Context,
	factory permission.Factory,
	index search.Gateway,
	announcer events.Announcer,
	id int64,
	operationName string,
) error {
	uow := factory()
	defer uow.Close()

	row, err := uow.Requests().GetByID(ctx, id, permission.UntrackedWithType())
	if err != nil {
		slog.Error("Post-commit re-fetch failed",
			"permissionId", id,
			"operation", operationName,
			"error", err)
		return err
	}
	if row == nil {
		slog.Warn("Committed permission not found on re-fetch, skipping propagation",
			"permissionId", id,
			"operation", operationName)
		return nil
	}

	doc := search.FromDTO(permission.ToDTO(row))
	switch operationName {
	case events.OperationRequest:
		index.IndexDocument(ctx, doc)
	default:
		index.UpdateDocument(ctx, doc)
	}

	if !announcer.Announce(ctx, operationName) {
		slog.Warn("Operation message not acknowledged",
			"permissionId", id,
			"operation", operationName)
	}
	return nil
}
