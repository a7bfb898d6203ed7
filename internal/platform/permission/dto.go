package permission

import (
	"encoding/json"
	"time"
)

// DTO is the wire-facing projection of a Request, with the related type
// denormalized in. It is what the API returns and what gets indexed.
type DTO struct {
	ID               int64     `json:"id"`
	EmployeeForename string    `json:"employeeForename"`
	EmployeeSurname  string    `json:"employeeSurname"`
	PermissionTypeID int64     `json:"permissionTypeId"`
	PermissionDate   time.Time `json:"permissionDate"`
	PermissionType   *TypeDTO  `json:"permissionType,omitempty"`
}

// TypeDTO is the wire-facing projection of a Type.
type TypeDTO struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// MarshalJSON renders the permission date without a time component.
func (d DTO) MarshalJSON() ([]byte, error) {
	type alias DTO
	return json.Marshal(struct {
		alias
		PermissionDate string `json:"permissionDate"`
	}{
		alias:          alias(d),
		PermissionDate: d.PermissionDate.Format(DateLayout),
	})
}

// ToDTO maps a Request to its wire projection.
func ToDTO(r *Request) DTO {
	dto := DTO{
		ID:               r.ID,
		EmployeeForename: r.EmployeeForename,
		EmployeeSurname:  r.EmployeeSurname,
		PermissionTypeID: r.PermissionTypeID,
		PermissionDate:   r.PermissionDate,
	}
	if r.PermissionType != nil {
		dto.PermissionType = &TypeDTO{
			ID:          r.PermissionType.ID,
			Description: r.PermissionType.Description,
		}
	}
	return dto
}

// ToDTOs maps a slice of Requests to wire projections.
func ToDTOs(requests []*Request) []DTO {
	dtos := make([]DTO, 0, len(requests))
	for _, r := range requests {
		dtos = append(dtos, ToDTO(r))
	}
	return dtos
}
