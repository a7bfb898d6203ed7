package operations

import (
	"fmt"
	"time"

	"go.permitdesk.tech/internal/platform/permission"
)

// MaxNameLength bounds forename and surname, matching the schema CHECK
// constraints so a value that passes validation cannot fail at the store.
const MaxNameLength = 100

// permissionFields is the shared shape of create and modify input.
type permissionFields struct {
	EmployeeForename string
	EmployeeSurname  string
	PermissionTypeID int64
	PermissionDate   string
}

func requireForename(f permissionFields) (string, bool) {
	if f.EmployeeForename == "" {
		return "employee forename is required", false
	}
	return "", true
}

func forenameLength(f permissionFields) (string, bool) {
	if len(f.EmployeeForename) > MaxNameLength {
		return fmt.Sprintf("employee forename must be at most %d characters", MaxNameLength), false
	}
	return "", true
}

func requireSurname(f permissionFields) (string, bool) {
	if f.EmployeeSurname == "" {
		return "employee surname is required", false
	}
	return "", true
}

func surnameLength(f permissionFields) (string, bool) {
	if len(f.EmployeeSurname) > MaxNameLength {
		return fmt.Sprintf("employee surname must be at most %d characters", MaxNameLength), false
	}
	return "", true
}

func validTypeID(f permissionFields) (string, bool) {
	if f.PermissionTypeID <= 0 {
		return "permission type id must be greater than zero", false
	}
	return "", true
}

func validDate(f permissionFields) (string, bool) {
	if f.PermissionDate == "" {
		return "permission date is required", false
	}
	date, err := time.Parse(permission.DateLayout, f.PermissionDate)
	if err != nil {
		return fmt.Sprintf("permission date must use the %s format", permission.DateLayout), false
	}
	if date.Before(today()) {
		return "permission date must not be in the past", false
	}
	return "", true
}

// today returns the current calendar date, truncated to midnight UTC.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// mustParseDate converts an already-validated date string.
func mustParseDate(value string) time.Time {
	date, _ := time.Parse(permission.DateLayout, value)
	return date
}
