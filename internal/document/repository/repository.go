package repository

import (
	"context"
	"errors"

	"github.com/ArmaanM08/WikiDoCollab/internal/document"
)

var (
	ErrNotFound = errors.New("document not found")
)

// DocumentRepository defines persistence operations for documents. All
// mutations are single-document atomic field updates; there are no
// multi-document transactions.
type DocumentRepository interface {
	Create(ctx context.Context, doc *document.Document) (string, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	// ListForUser returns documents owned by or shared with userID, most
	// recently updated first.
	ListForUser(ctx context.Context, userID string) ([]*document.Document, error)
	// ListPublic returns non-private documents, most recently updated first.
	ListPublic(ctx context.Context) ([]*document.Document, error)
	// ListOwned returns documents owned by ownerID.
	ListOwned(ctx context.Context, ownerID string) ([]*document.Document, error)
	// UpdateContent overwrites the live content whole (last write wins).
	UpdateContent(ctx context.Context, id, content string) error
	// AppendRequest appends a collaboration request entry.
	AppendRequest(ctx context.Context, id string, req document.CollaborationRequest) error
	// SetRequestStatus moves the pending entry for userID to status.
	SetRequestStatus(ctx context.Context, id, userID, status string) error
	// AddCollaborator adds userID to the collaborator set, idempotently.
	AddCollaborator(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

// VersionRepository defines persistence operations for version snapshots.
// Versions are immutable; the only delete path is the document cascade.
type VersionRepository interface {
	Create(ctx context.Context, v *document.Version) (string, error)
	// ListByDocument returns versions newest first.
	ListByDocument(ctx context.Context, documentID string) ([]*document.Version, error)
	// LatestByDocument returns the newest version or nil when none exist.
	LatestByDocument(ctx context.Context, documentID string) (*document.Version, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
