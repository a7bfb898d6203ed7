package operations

import (
	"context"
	"fmt"

	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/events"
	"go.permitdesk.tech/internal/platform/permission"
)

// GetPermissionQuery identifies the permission request to fetch
type GetPermissionQuery struct {
	ID int64 `json:"id"`
}

// GetPermissionUseCase handles fetching one permission request by id
type GetPermissionUseCase struct {
	uow       permission.Factory
	announcer events.Announcer
}

// NewGetPermissionUseCase creates a new GetPermissionUseCase
func NewGetPermissionUseCase(uow permission.Factory, announcer events.Announcer) *GetPermissionUseCase {
	return &GetPermissionUseCase{
		uow:       uow,
		announcer: announcer,
	}
}

// Handler returns the use case wrapped in its pipeline stages
func (uc *GetPermissionUseCase) Handler() common.HandlerFunc[GetPermissionQuery, permission.DTO] {
	return common.Chain(uc.Execute,
		common.LoggingStage[GetPermissionQuery, permission.DTO]("GetPermission"),
		common.MetricsStage[GetPermissionQuery, permission.DTO]("get"),
	)
}

// Execute fetches the permission request with its type relation
func (uc *GetPermissionUseCase) Execute(ctx context.Context, query GetPermissionQuery) common.Result[permission.DTO] {
	uow := uc.uow()
	defer uow.Close()

	row, err := uow.Requests().GetByID(ctx, query.ID, permission.UntrackedWithType())
	if err != nil {
		return common.Failure[permission.DTO](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to fetch permission request",
				map[string]any{"error": err.Error()}),
		)
	}
	if row == nil {
		return common.Failure[permission.DTO](
			common.ValidationError(common.ErrCodePermissionNotFound,
				fmt.Sprintf("Permission with id %d does not exist", query.ID),
				map[string]any{"id": query.ID}),
		)
	}

	uc.announcer.Announce(ctx, events.OperationGet)

	return common.Success(permission.ToDTO(row))
}
