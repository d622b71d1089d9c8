package service

import (
	"context"
	"time"

	"github.com/ArmaanM08/WikiDoCollab/internal/document"
	"github.com/ArmaanM08/WikiDoCollab/internal/document/repository"
	"github.com/ArmaanM08/WikiDoCollab/internal/models"
	"github.com/ArmaanM08/WikiDoCollab/internal/users"
	"github.com/ArmaanM08/WikiDoCollab/pkg/apperr"
	"github.com/ArmaanM08/WikiDoCollab/pkg/logger"
)

// Request outcomes returned by RequestAccess and Decide.
const (
	OutcomeRequested           = "requested"
	OutcomeAlreadyCollaborator = "already-collaborator"
	OutcomeAlreadyRequested    = "already-requested"
	OutcomeApproved            = "approved"
	OutcomeRejected            = "rejected"
)

// Archive receives best-effort copies of version snapshots (object storage).
type Archive interface {
	PutSnapshot(ctx context.Context, versionID string, data []byte) error
}

// Service carries the document business logic: CRUD, capability decisions,
// the collaboration-request workflow and version snapshots.
type Service struct {
	docs     repository.DocumentRepository
	versions repository.VersionRepository
	users    users.UserRepository
	archive  Archive // may be nil
}

func NewService(docs repository.DocumentRepository, versions repository.VersionRepository, userRepo users.UserRepository, archive Archive) *Service {
	return &Service{docs: docs, versions: versions, users: userRepo, archive: archive}
}

func (s *Service) Create(ctx context.Context, ownerID, title string, isPrivate bool) (*document.Document, error) {
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	d := &document.Document{
		Title:           title,
		OwnerID:         ownerID,
		IsPrivate:       isPrivate,
		CollaboratorIDs: []string{},
	}
	if _, err := s.docs.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*document.Document, error) {
	d, err := s.docs.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.NotFound("")
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*document.Document, error) {
	return s.docs.ListForUser(ctx, userID)
}

// PublicDocument is a public-listing entry with display identities resolved.
type PublicDocument struct {
	ID            string      `json:"_id"`
	Title         string      `json:"title"`
	IsPrivate     bool        `json:"isPrivate"`
	Owner         *NamedUser  `json:"owner"`
	Collaborators []NamedUser `json:"collaborators"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type NamedUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListPublic returns every non-private document with owner and collaborator
// display names resolved.
func (s *Service) ListPublic(ctx context.Context) ([]PublicDocument, error) {
	docs, err := s.docs.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	ids := map[string]bool{}
	for _, d := range docs {
		ids[d.OwnerID] = true
		for _, c := range d.CollaboratorIDs {
			ids[c] = true
		}
	}
	userIDs := make([]string, 0, len(ids))
	for id := range ids {
		userIDs = append(userIDs, id)
	}
	resolved, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	byID := map[string]*models.User{}
	for _, u := range resolved {
		byID[u.ID] = u
	}

	out := make([]PublicDocument, 0, len(docs))
	for _, d := range docs {
		pd := PublicDocument{
			ID:            d.ID,
			Title:         d.Title,
			IsPrivate:     d.IsPrivate,
			Collaborators: []NamedUser{},
			UpdatedAt:     d.UpdatedAt,
		}
		if u, ok := byID[d.OwnerID]; ok {
			pd.Owner = &NamedUser{ID: u.ID, Name: u.PublicName()}
		}
		for _, cid := range d.CollaboratorIDs {
			if u, ok := byID[cid]; ok {
				pd.Collaborators = append(pd.Collaborators, NamedUser{ID: u.ID, Name: u.PublicName()})
			}
		}
		out = append(out, pd)
	}
	return out, nil
}

// Delete removes a document and all of its versions. Owner only. Versions are
// deleted first; the two steps are not atomic, so a crash in between leaves
// orphaned versions (accepted).
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.OwnerID != callerID {
		return apperr.Forbidden("only owner can delete")
	}
	if err := s.versions.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("")
		}
		return err
	}
	return nil
}

// Project fetches the current capability projection and live content. Always
// a fresh read; callers must not cache the result across messages.
func (s *Service) Project(ctx context.Context, id string) (document.Projection, string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return document.Projection{}, "", err
	}
	return d.Projection(), d.Content, nil
}

// Capability evaluates what userID may do with the document.
func (s *Service) Capability(ctx context.Context, id, userID string) (*document.Document, document.Capability, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, document.Capability{}, err
	}
	return d, document.Evaluate(d.Projection(), userID), nil
}

// Content returns the live content, enforcing the view capability.
func (s *Service) Content(ctx context.Context, id, userID string) (string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !document.Evaluate(d.Projection(), userID).CanView {
		return "", apperr.Forbidden("")
	}
	return d.Content, nil
}

// SaveContent overwrites the live content whole, enforcing the edit
// capability against a fresh projection.
func (s *Service) SaveContent(ctx context.Context, id, userID, content string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !document.Evaluate(d.Projection(), userID).CanEdit {
		return apperr.Forbidden("")
	}
	if err := s.docs.UpdateContent(ctx, id, content); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("")
		}
		return err
	}
	return nil
}

// RequestAccess files a collaboration request. Owners are rejected outright;
// existing collaborators and pending requesters get their status echoed back
// without a new entry. The duplicate check looks at pending entries only, so
// a previously rejected user can file again.
func (s *Service) RequestAccess(ctx context.Context, id, userID string) (string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if d.OwnerID == userID {
		return "", apperr.Validation("owner already has access")
	}
	if d.HasCollaborator(userID) {
		return OutcomeAlreadyCollaborator, nil
	}
	if d.PendingRequest(userID) != nil {
		return OutcomeAlreadyRequested, nil
	}
	req := document.CollaborationRequest{UserID: userID, Status: document.StatusPending, RequestedAt: time.Now().UTC()}
	if err := s.docs.AppendRequest(ctx, id, req); err != nil {
		return "", err
	}
	return OutcomeRequested, nil
}

// Decide approves or rejects a pending request. Owner only. Approval adds the
// requester to the collaborator set idempotently; rejection only marks the
// request and never revokes access granted through another path.
func (s *Service) Decide(ctx context.Context, id, callerID, requesterID string, approve bool) (string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if d.OwnerID != callerID {
		return "", apperr.Forbidden("only owner can approve")
	}
	if d.PendingRequest(requesterID) == nil {
		return "", apperr.Validation("no pending request")
	}
	status := document.StatusRejected
	if approve {
		status = document.StatusApproved
	}
	if err := s.docs.SetRequestStatus(ctx, id, requesterID, status); err != nil {
		return "", err
	}
	if approve {
		if err := s.docs.AddCollaborator(ctx, id, requesterID); err != nil {
			return "", err
		}
		return OutcomeApproved, nil
	}
	return OutcomeRejected, nil
}

// PendingRequest is one entry in an owner's request queue.
type PendingRequest struct {
	DocID       string     `json:"docId"`
	Title       string     `json:"title"`
	Requester   NamedEntry `json:"requester"`
	RequestedAt time.Time  `json:"requestedAt"`
}

type NamedEntry struct {
	ID          string `json:"_id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// PendingRequests enumerates every pending collaboration request across all
// documents owned by ownerID, joined with requester identity.
func (s *Service) PendingRequests(ctx context.Context, ownerID string) ([]PendingRequest, error) {
	docs, err := s.docs.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	type entry struct {
		docID, title, userID string
		requestedAt          time.Time
	}
	entries := []entry{}
	idSet := map[string]bool{}
	for _, d := range docs {
		for _, r := range d.CollaborationRequests {
			if r.Status == document.StatusPending && r.UserID != "" {
				entries = append(entries, entry{docID: d.ID, title: d.Title, userID: r.UserID, requestedAt: r.RequestedAt})
				idSet[r.UserID] = true
			}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	resolved, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := map[string]*models.User{}
	for _, u := range resolved {
		byID[u.ID] = u
	}
	out := make([]PendingRequest, 0, len(entries))
	for _, e := range entries {
		pr := PendingRequest{DocID: e.docID, Title: e.title, RequestedAt: e.requestedAt}
		pr.Requester.ID = e.userID
		if u, ok := byID[e.userID]; ok {
			pr.Requester.Email = u.Email
			pr.Requester.DisplayName = u.DisplayName
		}
		out = append(out, pr)
	}
	return out, nil
}

// CreateVersion stores an immutable snapshot. The archive copy is best-effort
// and never fails the save.
func (s *Service) CreateVersion(ctx context.Context, docID, authorID, message string, snapshot []byte) (*document.Version, error) {
	if _, err := s.Get(ctx, docID); err != nil {
		return nil, err
	}
	v := &document.Version{
		DocumentID: docID,
		AuthorID:   authorID,
		Message:    message,
		Snapshot:   snapshot,
	}
	if _, err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}
	if s.archive != nil && len(snapshot) > 0 {
		if err := s.archive.PutSnapshot(ctx, v.ID, snapshot); err != nil {
			logger.Warnf("snapshot archive upload failed for version %s: %v", v.ID, err)
		}
	}
	return v, nil
}

// VersionWithAuthor pairs a version with its author's display identity.
type VersionWithAuthor struct {
	*document.Version
	Author *NamedEntry `json:"authorId,omitempty"`
}

// ListVersions returns versions newest first with authors populated.
func (s *Service) ListVersions(ctx context.Context, docID string) ([]VersionWithAuthor, error) {
	vs, err := s.versions.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	idSet := map[string]bool{}
	for _, v := range vs {
		if v.AuthorID != "" {
			idSet[v.AuthorID] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	resolved, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := map[string]*models.User{}
	for _, u := range resolved {
		byID[u.ID] = u
	}
	out := make([]VersionWithAuthor, 0, len(vs))
	for _, v := range vs {
		vw := VersionWithAuthor{Version: v}
		if u, ok := byID[v.AuthorID]; ok {
			vw.Author = &NamedEntry{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
		}
		out = append(out, vw)
	}
	return out, nil
}

// LatestSnapshot returns the newest version's snapshot for exports, enforcing
// the view capability. Empty slice when no version exists.
func (s *Service) LatestSnapshot(ctx context.Context, docID, userID string) ([]byte, error) {
	d, err := s.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !document.Evaluate(d.Projection(), userID).CanView {
		return nil, apperr.Forbidden("")
	}
	v, err := s.versions.LatestByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.Snapshot, nil
}
