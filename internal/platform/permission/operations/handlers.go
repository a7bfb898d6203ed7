package operations

import (
	"go.permitdesk.tech/internal/platform/common"
	"go.permitdesk.tech/internal/platform/permission"
)

// Pipeline-wrapped handler types, as returned by each use case's Handler.
type (
	RequestPermissionHandler = common.HandlerFunc[RequestPermissionCommand, int64]
	ModifyPermissionHandler  = common.HandlerFunc[ModifyPermissionCommand, int64]
	GetPermissionHandler     = common.HandlerFunc[GetPermissionQuery, permission.DTO]
	ListPermissionsHandler   = common.HandlerFunc[ListPermissionsQuery, []permission.DTO]
)
