package operations

import (
	"context"

	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/events"
	"go.permitdesk.tech/internal/platform/permission"
)

// ListPermissionsQuery fetches every permission request; it carries no
// filter parameters.
type ListPermissionsQuery struct{}

// ListPermissionsUseCase handles fetching all permission requests
type ListPermissionsUseCase struct {
	uow       permission.Factory
	announcer events.Announcer
}

// NewListPermissionsUseCase creates a new ListPermissionsUseCase
func NewListPermissionsUseCase(uow permission.Factory, announcer events.Announcer) *ListPermissionsUseCase {
	return &ListPermissionsUseCase{
		uow:       uow,
		announcer: announcer,
	}
}

// Handler returns the use case wrapped in its pipeline stages
func (uc *ListPermissionsUseCase) Handler() common.HandlerFunc[ListPermissionsQuery, []permission.DTO] {
	return common.Chain(uc.Execute,
		common.LoggingStage[ListPermissionsQuery, []permission.DTO]("ListPermissions"),
		common.MetricsStage[ListPermissionsQuery, []permission.DTO]("list"),
	)
}

// Execute fetches every permission request with its type relation
func (uc *ListPermissionsUseCase) Execute(ctx context.Context, _ ListPermissionsQuery) common.Result[[]permission.DTO] {
	uow := uc.uow()
	defer uow.Close()

	rows, err := uow.Requests().GetAll(ctx, permission.UntrackedWithType())
	if err != nil {
		return common.Failure[[]permission.DTO](
			common.InternalError(common.ErrCodeOperationFailed,
				"Failed to fetch permission requests",
				map[string]any{"error": err.Error()}),
		)
	}

	uc.announcer.Announce(ctx, events.OperationGet)

	return common.Success(permission.ToDTOs(rows))
}
