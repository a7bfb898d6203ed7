package permission

import (
	"context"

	"go.permitdesk.tech/internal/common/repository"
)

const (
	requestTableName = "permission_requests"
	typeTableName    = "permission_types"
)

// instrumentedRequestRepository wraps a Repository with metrics and logging
type instrumentedRequestRepository struct {
	inner Repository
}

// newInstrumentedRequestRepository creates an instrumented wrapper around a Repository
func newInstrumentedRequestRepository(inner Repository) Repository {
	return &instrumentedRequestRepository{inner: inner}
}

func (r *instrumentedRequestRepository) Add(ctx context.Context, entity *Request) (*Request, error) {
	return repository.Instrument(ctx, requestTableName, "Add", func() (*Request, error) {
		return r.inner.Add(ctx, entity)
	})
}

func (r *instrumentedRequestRepository) GetByID(ctx context.Context, id int64, q Query) (*Request, error) {
	return repository.Instrument(ctx, requestTableName, "GetByID", func() (*Request, error) {
		return r.inner.GetByID(ctx, id, q)
	})
}

func (r *instrumentedRequestRepository) GetAll(ctx context.Context, q Query) ([]*Request, error) {
	return repository.Instrument(ctx, requestTableName, "GetAll", func() ([]*Request, error) {
		return r.inner.GetAll(ctx, q)
	})
}

func (r *instrumentedRequestRepository) GetWhere(ctx context.Context, predicate func(*Request) bool, q Query) ([]*Request, error) {
	return repository.Instrument(ctx, requestTableName, "GetWhere", func() ([]*Request, error) {
		return r.inner.GetWhere(ctx, predicate, q)
	})
}

func (r *instrumentedRequestRepository) Update(ctx context.Context, entity *Request) (*Request, error) {
	return repository.Instrument(ctx, requestTableName, "Update", func() (*Request, error) {
		return r.inner.Update(ctx, entity)
	})
}

func (r *instrumentedRequestRepository) Remove(ctx context.Context, id int64) error {
	return repository.InstrumentVoid(ctx, requestTableName, "Remove", func() error {
		return r.inner.Remove(ctx, id)
	})
}

// instrumentedTypeRepository wraps a TypeRepository with metrics and logging
type instrumentedTypeRepository struct {
	inner TypeRepository
}

// newInstrumentedTypeRepository creates an instrumented wrapper around a TypeRepository
func newInstrumentedTypeRepository(inner TypeRepository) TypeRepository {
	return &instrumentedTypeRepository{inner: inner}
}

func (r *instrumentedTypeRepository) Add(ctx context.Context, entity *Type) (*Type, error) {
	return repository.Instrument(ctx, typeTableName, "Add", func() (*Type, error) {
		return r.inner.Add(ctx, entity)
	})
}

func (r *instrumentedTypeRepository) GetByID(ctx context.Context, id int64, q TypeQuery) (*Type, error) {
	return repository.Instrument(ctx, typeTableName, "GetByID", func() (*Type, error) {
		return r.inner.GetByID(ctx, id, q)
	})
}

func (r *instrumentedTypeRepository) GetAll(ctx context.Context, q TypeQuery) ([]*Type, error) {
	return repository.Instrument(ctx, typeTableName, "GetAll", func() ([]*Type, error) {
		return r.inner.GetAll(ctx, q)
	})
}

func (r *instrumentedTypeRepository) GetWhere(ctx context.Context, predicate func(*Type) bool, q TypeQuery) ([]*Type, error) {
	return repository.Instrument(ctx, typeTableName, "GetWhere", func() ([]*Type, error) {
		return r.inner.GetWhere(ctx, predicate, q)
	})
}

func (r *instrumentedTypeRepository) Update(ctx context.Context, entity *Type) (*Type, error) {
	return repository.Instrument(ctx, typeTableName, "Update", func() (*Type, error) {
		return r.inner.Update(ctx, entity)
	})
}

func (r *instrumentedTypeRepository) Remove(ctx context.Context, id int64) error {
	return repository.InstrumentVoid(ctx, typeTableName, "Remove", func() error {
		return r.inner.Remove(ctx, id)
	})
}
