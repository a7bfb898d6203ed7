package permission

import "go.permitdesk.tech/internal/common/repository"

// Repository is the data access contract for permission requests.
// All implementations must be wrapped with instrumentation.
type Repository = repository.Repository[Request, int64]

// TypeRepository is the data access contract for permission types.
type TypeRepository = repository.Repository[Type, int64]

// Query aliases the generic read options for permission requests.
type Query = repository.Query[Request]

// TypeQuery aliases the generic read options for permission types.
type TypeQuery = repository.Query[Type]

// UntrackedWithType is the detached read with the type relation loaded.
func UntrackedWithType() Query {
	return repository.Untracked[Request](IncludeType)
}

// TrackedWithType is the session-tracked read with the type relation loaded.
func TrackedWithType() Query {
	return repository.Tracked[Request](IncludeType)
}
