// internal/remote/remote.go
package remote

import (
	"context"
	"fmt"
	"strings"

	"shoplite-agent/internal/utils"
)

// Document is one record in a remote collection. Fields must already be
// sanitized when written (the remote rejects NaN and infinite numbers).
type Document struct {
	ID     string
	Fields utils.Fields
}

// Store is the document-store contract the sync engine and fast path run
// against. Every path is namespaced under the authenticated principal via
// CollectionPath/DocPath, so no cross-user data ever mixes.
type Store interface {
	// ListAll returns the complete document set of a collection.
	ListAll(ctx context.Context, collectionPath string) ([]Document, error)
	// BatchUpsert writes the given documents as one all-or-nothing batch.
	BatchUpsert(ctx context.Context, collectionPath string, docs []Document) error
	// Get fetches a single document; the bool reports whether it exists.
	Get(ctx context.Context, docPath string) (utils.Fields, bool, error)
	// Set writes a single document. With merge, provided fields overlay the
	// existing document instead of replacing it.
	Set(ctx context.Context, docPath string, fields utils.Fields, merge bool) error
	// Delete removes a single document; absent documents are not an error.
	Delete(ctx context.Context, docPath string) error
}

// CollectionPath builds the per-user namespace of a collection.
func CollectionPath(principal, collection string) string {
	return fmt.Sprintf("users/%s/%s", principal, collection)
}

// DocPath builds the full path of one document.
func DocPath(principal, collection, id string) string {
	return fmt.Sprintf("users/%s/%s/%s", principal, collection, id)
}

// splitDocPath separates a document path into its collection path and the
// document id (the final segment).
func splitDocPath(docPath string) (collectionPath, id string) {
	i := strings.LastIndex(docPath, "/")
	if i < 0 {
		return "", docPath
	}
	return docPath[:i], docPath[i+1:]
}
