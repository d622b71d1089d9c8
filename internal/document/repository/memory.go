package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ArmaanM08/WikiDoCollab/internal/document"
)

// MemoryDocumentRepo is an in-memory DocumentRepository used for unit tests
// and for running without a Mongo instance.
type MemoryDocumentRepo struct {
	mu    sync.RWMutex
	store map[string]*document.Document
}

func NewMemoryDocumentRepo() *MemoryDocumentRepo {
	return &MemoryDocumentRepo{store: make(map[string]*document.Document)}
}

func (m *MemoryDocumentRepo) Create(ctx context.Context, doc *document.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	cp := *doc
	m.store[doc.ID] = &cp
	return doc.ID, nil
}

func (m *MemoryDocumentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	cp.CollaboratorIDs = append([]string(nil), d.CollaboratorIDs...)
	cp.CollaborationRequests = append([]document.CollaborationRequest(nil), d.CollaborationRequests...)
	return &cp, nil
}

func (m *MemoryDocumentRepo) ListForUser(ctx context.Context, userID string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, d := range m.store {
		if d.OwnerID == userID || d.HasCollaborator(userID) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sortByUpdatedDesc(out)
	return out, nil
}

func (m *MemoryDocumentRepo) ListPublic(ctx context.Context) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, d := range m.store {
		if !d.IsPrivate {
			cp := *d
			out = append(out, &cp)
		}
	}
	sortByUpdatedDesc(out)
	return out, nil
}

func (m *MemoryDocumentRepo) ListOwned(ctx context.Context, ownerID string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, d := range m.store {
		if d.OwnerID == ownerID {
			cp := *d
			cp.CollaborationRequests = append([]document.CollaborationRequest(nil), d.CollaborationRequests...)
			out = append(out, &cp)
		}
	}
	sortByUpdatedDesc(out)
	return out, nil
}

func (m *MemoryDocumentRepo) UpdateContent(ctx context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	d.Content = content
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryDocumentRepo) AppendRequest(ctx context.Context, id string, req document.CollaborationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	d.CollaborationRequests = append(d.CollaborationRequests, req)
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryDocumentRepo) SetRequestStatus(ctx context.Context, id, userID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	for i := range d.CollaborationRequests {
		r := &d.CollaborationRequests[i]
		if r.UserID == userID && r.Status == document.StatusPending {
			r.Status = status
			d.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryDocumentRepo) AddCollaborator(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if !d.HasCollaborator(userID) {
		d.CollaboratorIDs = append(d.CollaboratorIDs, userID)
		d.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MemoryDocumentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func sortByUpdatedDesc(docs []*document.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
}

// MemoryVersionRepo is the in-memory VersionRepository counterpart.
type MemoryVersionRepo struct {
	mu    sync.RWMutex
	store []*document.Version
}

func NewMemoryVersionRepo() *MemoryVersionRepo {
	return &MemoryVersionRepo{}
}

func (m *MemoryVersionRepo) Create(ctx context.Context, v *document.Version) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = time.Now().UTC()
	cp := *v
	m.store = append(m.store, &cp)
	return v.ID, nil
}

func (m *MemoryVersionRepo) ListByDocument(ctx context.Context, documentID string) ([]*document.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Version{}
	// walk backwards so equal timestamps still come out newest-first
	for i := len(m.store) - 1; i >= 0; i-- {
		if v := m.store[i]; v.DocumentID == documentID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryVersionRepo) LatestByDocument(ctx context.Context, documentID string) (*document.Version, error) {
	vs, err := m.ListByDocument(ctx, documentID)
	if err != nil || len(vs) == 0 {
		return nil, err
	}
	return vs[0], nil
}

func (m *MemoryVersionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.store[:0]
	for _, v := range m.store {
		if v.DocumentID != documentID {
			kept = append(kept, v)
		}
	}
	m.store = kept
	return nil
}
