package operations

import (
	"context"
	"fmt"

	"go.permitdesk.tech/internal/common/repository"
	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/events"
	"go.permitdesk.tech/internal/platform/permission"
	"go.permitdesk.tech/internal/search"
)

// ModifyPermissionCommand contains the data needed to overwrite an
// existing permission request.
type ModifyPermissionCommand struct {
	ID               int64  `json:"id"`
	EmployeeForename string `json:"employeeForename"`
	EmployeeSurname  string `json:"employeeSurname"`
	PermissionTypeID int64  `json:"permissionTypeId"`
	PermissionDate   string `json:"permissionDate"`
}

func (c ModifyPermissionCommand) fields() permissionFields {
	return permissionFields{
		EmployeeForename: c.EmployeeForename,
		EmployeeSurname:  c.EmployeeSurname,
		PermissionTypeID: c.PermissionTypeID,
		PermissionDate:   c.PermissionDate,
	}
}

// ModifyPermissionUseCase handles overwriting a permission request in place
type ModifyPermissionUseCase struct {
	uow       permission.Factory
	index     search.Gateway
	announcer events.Announcer
}

// NewModifyPermissionUseCase creates a new ModifyPermissionUseCase
func NewModifyPermissionUseCase(uow permission.Factory, index search.Gateway, announcer events.Announcer) *ModifyPermissionUseCase {
	return &ModifyPermissionUseCase{
		uow:       uow,
		index:     index,
		announcer: announcer,
	}
}

// Handler returns the use case wrapped in its pipeline stages
func (uc *ModifyPermissionUseCase) Handler() common.HandlerFunc[ModifyPermissionCommand, int64] {
	return common.Chain(uc.Execute,
		common.LoggingStage[ModifyPermissionCommand, int64]("ModifyPermission"),
		common.MetricsStage[ModifyPermissionCommand, int64]("modify"),
		common.ValidationStage[ModifyPermissionCommand, int64](
			fieldRule[ModifyPermissionCommand](requireForename),
			fieldRule[ModifyPermissionCommand](forenameLength),
			fieldRule[ModifyPermissionCommand](requireSurname),
			fieldRule[ModifyPermissionCommand](surnameLength),
			fieldRule[ModifyPermissionCommand](validTypeID),
			fieldRule[ModifyPermissionCommand](validDate),
		),
	)
}

// Execute overwrites the permission request and returns its id
func (uc *ModifyPermissionUseCase) Execute(ctx context.Context, cmd ModifyPermissionCommand) common.Result[int64] {
	uow := uc.uow()
	defer uow.Close()

	existing, err := uow.Requests().GetByID(ctx, cmd.ID, repository.Tracked[permission.Request]())
	if err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to fetch permission request",
				map[string]any{"error": err.Error()}),
		)
	}
	if existing == nil {
		return common.Failure[int64](
			common.ValidationError(common.ErrCodePermissionNotFound,
				fmt.Sprintf("Permission with id %d does not exist", cmd.ID),
				map[string]any{"id": cmd.ID}),
		)
	}

	existing.EmployeeForename = cmd.EmployeeForename
	existing.EmployeeSurname = cmd.EmployeeSurname
	existing.PermissionTypeID = cmd.PermissionTypeID
	existing.PermissionDate = mustParseDate(cmd.PermissionDate)

	if _, err := uow.Requests().Update(ctx, existing); err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to stage permission update",
				map[string]any{"error": err.Error()}),
		)
	}

	if _, err := uow.Commit(ctx); err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeCommitFailed,
				"Failed to commit permission update",
				map[string]any{"error": err.Error()}),
		)
	}

	if err := propagate(ctx, uc.uow, uc.index, uc.announcer, cmd.ID, events.OperationModify); err != nil {
		return common.Failure[int64](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to read back committed permission",
				map[string]any{"id": cmd.ID, "error": err.Error()}),
		)
	}

	return common.Success(cmd.ID)
}
