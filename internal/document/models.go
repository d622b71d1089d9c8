package document

import "time"

// Request statuses for embedded collaboration requests.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// CollaborationRequest is embedded in a Document. At most one pending entry
// exists per user at a time (enforced by lookup-before-insert, not an index).
type CollaborationRequest struct {
	UserID      string    `bson:"userId" json:"userId"`
	Status      string    `bson:"status" json:"status"`
	RequestedAt time.Time `bson:"requestedAt" json:"requestedAt"`
}

// Document is the persistent document model. Content holds the current live
// state and is overwritten whole on every accepted edit. Snapshot is an opaque
// binary capture kept for exports; versioned snapshots live in Version.
type Document struct {
	ID                    string                 `bson:"_id,omitempty" json:"_id"`
	Title                 string                 `bson:"title" json:"title"`
	OwnerID               string                 `bson:"ownerId" json:"ownerId"`
	CollaboratorIDs       []string               `bson:"collaboratorIds" json:"collaboratorIds"`
	Permissions           map[string]string      `bson:"permissions,omitempty" json:"permissions,omitempty"`
	IsPrivate             bool                   `bson:"isPrivate" json:"isPrivate"`
	CollaborationRequests []CollaborationRequest `bson:"collaborationRequests,omitempty" json:"collaborationRequests,omitempty"`
	Content               string                 `bson:"content" json:"content"`
	Snapshot              []byte                 `bson:"snapshot,omitempty" json:"-"`
	CreatedAt             time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// Projection is the slice of a document the capability evaluator and the
// realtime broker work from. Always re-fetched, never cached.
func (d *Document) Projection() Projection {
	return Projection{
		OwnerID:         d.OwnerID,
		CollaboratorIDs: d.CollaboratorIDs,
		IsPrivate:       d.IsPrivate,
	}
}

// PendingRequest returns the pending entry for userID, if any. Rejected or
// approved entries do not count; a rejected user may file a fresh request.
func (d *Document) PendingRequest(userID string) *CollaborationRequest {
	for i := range d.CollaborationRequests {
		r := &d.CollaborationRequests[i]
		if r.UserID == userID && r.Status == StatusPending {
			return r
		}
	}
	return nil
}

// HasCollaborator reports whether userID is in the collaborator set.
func (d *Document) HasCollaborator(userID string) bool {
	for _, id := range d.CollaboratorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Version is an immutable point-in-time snapshot created by an explicit save.
type Version struct {
	ID         string    `bson:"_id,omitempty" json:"_id"`
	DocumentID string    `bson:"documentId" json:"documentId"`
	AuthorID   string    `bson:"authorId" json:"authorId"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	Snapshot   []byte    `bson:"snapshot,omitempty" json:"snapshot,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
