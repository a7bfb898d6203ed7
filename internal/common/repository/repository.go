// Package repository provides the generic data-access contract shared by all
// entity repositories, plus instrumentation for their implementations.
package repository

import "context"

// Entity constrains repository element types to those exposing a unique id.
type Entity[ID comparable] interface {
	EntityID() ID
}

// Query carries the read options every fetch operation accepts.
//
// Tracking=false returns detached copies that are safe to hand across layers;
// Tracking=true returns live handles registered with the owning session so a
// later Update is captured by the next commit.
//
// Include names relations to eager-load (e.g. "PermissionType"). Relations
// not listed stay unpopulated, not merely empty.
type Query[T any] struct {
	Tracking bool
	Include  []string

	// OrderBy supplies a total order for deterministic paging. When nil and
	// Skip/Top are set, the result order is implementation-defined and must
	// not be relied upon.
	OrderBy func(a, b *T) bool

	// Skip and Top apply after ordering. Nil means not set.
	Skip *int
	Top  *int
}

// Untracked is the zero-option detached read.
func Untracked[T any](include ...string) Query[T] {
	return Query[T]{Tracking: false, Include: include}
}

// Tracked returns a query whose results join the session change set.
func Tracked[T any](include ...string) Query[T] {
	return Query[T]{Tracking: true, Include: include}
}

// Repository is the capability-typed data access contract over one entity kind.
//
// Add and Update only stage work; durability happens at the owning unit of
// work's Commit. GetByID returns (nil, nil) when no row matches; absence is
// a value, not an error, and callers decide whether it is exceptional.
type Repository[T any, ID comparable] interface {
	// Add stages a new row and returns the staged entity. The store-assigned
	// id becomes visible on the entity after Commit.
	Add(ctx context.Context, entity *T) (*T, error)

	// GetByID fetches one row, or (nil, nil) when absent.
	GetByID(ctx context.Context, id ID, q Query[T]) (*T, error)

	// GetAll fetches every row of the entity's table. No implicit pagination.
	GetAll(ctx context.Context, q Query[T]) ([]*T, error)

	// GetWhere fetches rows matching the predicate, ordered, then paged by
	// q.Skip and q.Top.
	GetWhere(ctx context.Context, predicate func(*T) bool, q Query[T]) ([]*T, error)

	// Update stages a row-level overwrite by id. All mutable attributes are
	// replaced; there are no partial-field semantics.
	Update(ctx context.Context, entity *T) (*T, error)

	// Remove stages deletion by id. Removing a non-existent id is a no-op.
	Remove(ctx context.Context, id ID) error
}
