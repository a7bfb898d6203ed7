package search

import "context"

// Gateway is the contract against the derived search index.
//
// Index and Update failures are logged and swallowed: the relational commit
// already happened and the caller's outcome must not depend on the index.
// GetDocument cannot distinguish a genuine miss from an index outage, so a
// false return here is never proof the relational record is absent.
type Gateway interface {
	// IndexDocument upserts a document keyed by its id. Never returns
	// transport failures to the caller.
	IndexDocument(ctx context.Context, doc Document)

	// UpdateDocument upserts a document keyed by its id, same contract as
	// IndexDocument.
	UpdateDocument(ctx context.Context, doc Document)

	// GetDocument fetches a document by id. The second return is false both
	// when the document is absent and when the index call itself failed.
	GetDocument(ctx context.Context, id int64) (Document, bool)

	// SearchDocuments runs a full-text match over the text-bearing fields
	// (forename, surname, type description). Returns an empty slice when
	// the index is unavailable.
	SearchDocuments(ctx context.Context, term string) []Document

	// EnsureIndexExists provisions the index with its field mapping if
	// absent. Idempotent; invoked once at service start-up.
	EnsureIndexExists(ctx context.Context) error
}
