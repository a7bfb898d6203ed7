// Package permission holds the permission-request aggregate: entities,
// repositories, the unit of work, and the wire-facing DTO projection.
package permission

import "time"

// DateLayout is the storage and wire layout for permission dates.
// Dates carry no time component.
const DateLayout = "2006-01-02"

// IncludeType is the relation path that eager-loads a request's type.
const IncludeType = "PermissionType"

// Request is a permission request, the system-of-record entity.
// PermissionType is populated only when the read asked for it via
// IncludeType; otherwise it stays nil.
type Request struct {
	ID               int64     `json:"id"`
	EmployeeForename string    `json:"employeeForename"`
	EmployeeSurname  string    `json:"employeeSurname"`
	PermissionTypeID int64     `json:"permissionTypeId"`
	PermissionDate   time.Time `json:"permissionDate"`

	PermissionType *Type `json:"permissionType,omitempty"`
}

// EntityID returns the store-assigned unique identifier.
func (r *Request) EntityID() int64 { return r.ID }

// Type is a permission type. Deleting a type is restricted by the store
// while permissions reference it; this core never mutates types.
type Type struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// EntityID returns the store-assigned unique identifier.
func (t *Type) EntityID() int64 { return t.ID }
