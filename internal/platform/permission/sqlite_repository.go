package permission

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"time"

	"go.permitdesk.tech/internal/common/sqlite"
	"go.permitdesk.tech/internal/platform/store"
)

// requestRepository provides SQLite access to permission request data.
// It is session-scoped: writes are staged on the session change set and
// become durable at the unit of work's commit.
type requestRepository struct {
	session *store.Session

	// tracked is the identity map for tracked reads. Repeated tracked reads
	// of the same id return the same handle.
	tracked map[int64]*Request
}

// NewRequestRepository creates a session-scoped permission request
// repository with instrumentation.
func NewRequestRepository(session *store.Session) Repository {
	return newInstrumentedRequestRepository(&requestRepository{
		session: session,
		tracked: make(map[int64]*Request),
	})
}

// Add stages a new row. The store-assigned id is written back onto the
// entity when the unit of work commits.
func (r *requestRepository) Add(ctx context.Context, entity *Request) (*Request, error) {
	err := r.session.Stage(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO permission_requests (employee_forename, employee_surname, permission_type_id, permission_date)
			 VALUES (?, ?, ?, ?)`,
			entity.EmployeeForename, entity.EmployeeSurname, entity.PermissionTypeID,
			entity.PermissionDate.Format(DateLayout),
		)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		entity.ID = id
		return res.RowsAffected()
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByID fetches one request, or (nil, nil) when absent.
func (r *requestRepository) GetByID(ctx context.Context, id int64, q Query) (*Request, error) {
	if q.Tracking {
		if tracked, ok := r.tracked[id]; ok {
			return tracked, nil
		}
	}

	rows, err := r.queryRequests(ctx, "WHERE pr.id = ?", q.Include, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	req := rows[0]
	if q.Tracking {
		r.tracked[id] = req
	}
	return req, nil
}

// GetAll fetches every request. No implicit pagination.
func (r *requestRepository) GetAll(ctx context.Context, q Query) ([]*Request, error) {
	return r.queryRequests(ctx, "", q.Include)
}

// GetWhere fetches requests matching the predicate, ordered by q.OrderBy,
// then paged by q.Skip and q.Top. Without OrderBy the paging order is the
// table's natural order and must not be relied upon.
func (r *requestRepository) GetWhere(ctx context.Context, predicate func(*Request) bool, q Query) ([]*Request, error) {
	all, err := r.queryRequests(ctx, "", q.Include)
	if err != nil {
		return nil, err
	}

	matched := make([]*Request, 0, len(all))
	for _, req := range all {
		if predicate == nil || predicate(req) {
			matched = append(matched, req)
		}
	}

	if q.OrderBy != nil {
		sort.SliceStable(matched, func(i, j int) bool { return q.OrderBy(matched[i], matched[j]) })
	}

	if q.Skip != nil {
		if *q.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[*q.Skip:]
		}
	}
	if q.Top != nil && *q.Top < len(matched) {
		matched = matched[:*q.Top]
	}

	return matched, nil
}

// Update stages a full-row overwrite by id.
func (r *requestRepository) Update(ctx context.Context, entity *Request) (*Request, error) {
	err := r.session.Stage(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE permission_requests
			 SET employee_forename = ?, employee_surname = ?, permission_type_id = ?, permission_date = ?
			 WHERE id = ?`,
			entity.EmployeeForename, entity.EmployeeSurname, entity.PermissionTypeID,
			entity.PermissionDate.Format(DateLayout), entity.ID,
		)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Remove stages deletion by id. Deleting a missing id affects zero rows.
func (r *requestRepository) Remove(ctx context.Context, id int64) error {
	return r.session.Stage(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, "DELETE FROM permission_requests WHERE id = ?", id)
		if err != nil {
			return 0, err
		}
		delete(r.tracked, id)
		return res.RowsAffected()
	})
}

// queryRequests runs the shared select, joining the type table only when
// the include path asks for it.
func (r *requestRepository) queryRequests(ctx context.Context, where string, include []string, args ...any) ([]*Request, error) {
	withType := slices.Contains(include, IncludeType)

	query := `SELECT pr.id, pr.employee_forename, pr.employee_surname, pr.permission_type_id, pr.permission_date`
	if withType {
		query += `, pt.id, pt.description`
	}
	query += ` FROM permission_requests pr`
	if withType {
		query += ` JOIN permission_types pt ON pt.id = pr.permission_type_id`
	}
	if where != "" {
		query += " " + where
	}
	query += ` ORDER BY pr.id`

	rows, err := r.session.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlite.ClassifyError(fmt.Errorf("failed to query permission requests: %w", err))
	}
	defer rows.Close()

	var result []*Request
	for rows.Next() {
		req := &Request{}
		var date string
		dest := []any{&req.ID, &req.EmployeeForename, &req.EmployeeSurname, &req.PermissionTypeID, &date}
		if withType {
			req.PermissionType = &Type{}
			dest = append(dest, &req.PermissionType.ID, &req.PermissionType.Description)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan permission request: %w", err)
		}
		parsed, err := time.Parse(DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invalid permission date %q: %w", date, err)
		}
		req.PermissionDate = parsed
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.ClassifyError(err)
	}

	return result, nil
}

// typeRepository provides SQLite access to permission type data.
type typeRepository struct {
	session *store.Session
	tracked map[int64]*Type
}

// NewTypeRepository creates a session-scoped permission type repository
// with instrumentation.
func NewTypeRepository(session *store.Session) TypeRepository {
	return newInstrumentedTypeRepository(&typeRepository{
		session: session,
		tracked: make(map[int64]*Type),
	})
}

func (r *typeRepository) Add(ctx context.Context, entity *Type) (*Type, error) {
	err := r.session.Stage(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO permission_types (description) VALUES (?)", entity.Description)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		entity.ID = id
		return res.RowsAffected()
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *typeRepository) GetByID(ctx context.Context, id int64, q TypeQuery) (*Type, error) {
	if q.Tracking {
		if tracked, ok := r.tracked[id]; ok {
			return tracked, nil
		}
	}

	t := &Type{}
	err := r.session.DB().QueryRowContext(ctx,
		"SELECT id, description FROM permission_types WHERE id = ?", id).
		Scan(&t.ID, &t.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, sqlite.ClassifyError(fmt.Errorf("failed to query permission type: %w", err))
	}

	if q.Tracking {
		r.tracked[id] = t
	}
	return t, nil
}

func (r *typeRepository) GetAll(ctx context.Context, q TypeQuery) ([]*Type, error) {
	rows, err := r.session.DB().QueryContext(ctx,
		"SELECT id, description FROM permission_types ORDER BY id")
	if err != nil {
		return nil, sqlite.ClassifyError(fmt.Errorf("failed to query permission types: %w", err))
	}
	defer rows.Close()

	var result []*Type
	for rows.Next() {
		t := &Type{}
		if err := rows.Scan(&t.ID, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan permission type: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *typeRepository) GetWhere(ctx context.Context, predicate func(*Type) bool, q TypeQuery) ([]*Type, error) {
	all, err := r.GetAll(ctx, q)
	if err != nil {
		return nil, err
	}

	matched := make([]*Type, 0, len(all))
	for _, t := range all {
		if predicate == nil || predicate(t) {
			matched = append(matched, t)
		}
	}

	if q.OrderBy != nil {
		sort.SliceStable(matched, func(i, j int) bool { return q.OrderBy(matched[i], matched[j]) })
	}
	if q.Skip != nil {
		if *q.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[*q.Skip:]
		}
	}
	if q.Top != nil && *q.Top < len(matched) {
		matched = matched[:*q.Top]
	}

	return matched, nil
}

func (r *typeRepository) Update(ctx context.Context, entity *Type) (*Type, error) {
	err := r.session.Stage(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			"UPDATE permission_types SET description = ? WHERE id = ?",
			entity.Description, entity.ID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *typeRepository) Remove(ctx context.Context, id int64) error {
	return r.session.Stage(func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, "DELETE FROM permission_types WHERE id = ?", id)
		if err != nil {
			return 0, err
		}
		delete(r.tracked, id)
		return res.RowsAffected()
	})
}

// ensure the generic contract stays satisfied
var (
	_ Repository     = (*requestRepository)(nil)
	_ TypeRepository = (*typeRepository)(nil)
)
