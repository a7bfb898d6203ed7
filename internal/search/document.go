// Package search provides the derived read-optimized index for permission
// documents. The index is eventually consistent with the system of record
// and must never be treated as authoritative.
package search

import (
	"strconv"
	"time"

	"go.permitdesk.tech/internal/platform/permission"
)

// Document is the denormalized search projection of a permission request,
// keyed by the same id as the relational row.
type Document struct {
	ID               int64     `json:"id"`
	EmployeeForename string    `json:"employeeForename"`
	EmployeeSurname  string    `json:"employeeSurname"`
	PermissionTypeID int64     `json:"permissionTypeId"`
	PermissionDate   time.Time `json:"permissionDate"`
	TypeID           int64     `json:"typeId"`
	TypeDescription  string    `json:"typeDescription"`
}

// FromDTO builds the index projection from the wire DTO.
func FromDTO(dto permission.DTO) Document {
	doc := Document{
		ID:               dto.ID,
		EmployeeForename: dto.EmployeeForename,
		EmployeeSurname:  dto.EmployeeSurname,
		PermissionTypeID: dto.PermissionTypeID,
		PermissionDate:   dto.PermissionDate,
	}
	if dto.PermissionType != nil {
		doc.TypeID = dto.PermissionType.ID
		doc.TypeDescription = dto.PermissionType.Description
	}
	return doc
}

// ToDTO maps the document back to the wire projection.
func (d Document) ToDTO() permission.DTO {
	dto := permission.DTO{
		ID:               d.ID,
		EmployeeForename: d.EmployeeForename,
		EmployeeSurname:  d.EmployeeSurname,
		PermissionTypeID: d.PermissionTypeID,
		PermissionDate:   d.PermissionDate,
	}
	if d.TypeID != 0 || d.TypeDescription != "" {
		dto.PermissionType = &permission.TypeDTO{
			ID:          d.TypeID,
			Description: d.TypeDescription,
		}
	}
	return dto
}

// fields renders the document as the flat hash stored in Redis.
func (d Document) fields() map[string]any {
	return map[string]any{
		"id":               strconv.FormatInt(d.ID, 10),
		"employeeForename": d.EmployeeForename,
		"employeeSurname":  d.EmployeeSurname,
		"permissionTypeId": strconv.FormatInt(d.PermissionTypeID, 10),
		"permissionDate":   d.PermissionDate.Format(permission.DateLayout),
		"typeId":           strconv.FormatInt(d.TypeID, 10),
		"typeDescription":  d.TypeDescription,
	}
}

// documentFromFields parses a stored hash back into a Document.
func documentFromFields(fields map[string]string) (Document, error) {
	var doc Document
	var err error

	if doc.ID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return Document{}, err
	}
	doc.EmployeeForename = fields["employeeForename"]
	doc.EmployeeSurname = fields["employeeSurname"]
	if v := fields["permissionTypeId"]; v != "" {
		if doc.PermissionTypeID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Document{}, err
		}
	}
	if v := fields["permissionDate"]; v != "" {
		if doc.PermissionDate, err = time.Parse(permission.DateLayout, v); err != nil {
			return Document{}, err
		}
	}
	if v := fields["typeId"]; v != "" {
		if doc.TypeID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Document{}, err
		}
	}
	doc.TypeDescription = fields["typeDescription"]

	return doc, nil
}
