package users

import (
	"context"
	"testing"

	"github.com/ArmaanM08/WikiDoCollab/internal/models"
	"github.com/ArmaanM08/WikiDoCollab/pkg/apperr"
)

// fake repo for testing
type fakeRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, ErrDuplicateEmail
	}
	f.nextID++
	u.ID = string(rune('a' + f.nextID))
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}
func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.byID[id], nil
}
func (f *fakeRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	out := []*models.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
func (f *fakeRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	if u, ok := f.byID[id]; ok {
		u.DisplayName = displayName
	}
	return nil
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Alice@Example.COM ", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Fatalf("password not hashed")
	}

	// same mailbox, different casing -> conflict
	_, err = svc.Register(ctx, "ALICE@example.com", "other", "A")
	if err == nil || apperr.Status(err) != 409 {
		t.Fatalf("expected 409 conflict, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService(newFakeRepo())
	if _, err := svc.Register(context.Background(), "", "pw", ""); apperr.Status(err) != 400 {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.c", "", ""); apperr.Status(err) != 400 {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	if _, err := svc.Register(ctx, "bob@example.com", "hunter22", "Bob"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	u, err := svc.Authenticate(ctx, "Bob@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if u.DisplayName != "Bob" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.Authenticate(ctx, "bob@example.com", "wrong"); apperr.Status(err) != 401 {
		t.Fatalf("expected 401 for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "x"); apperr.Status(err) != 401 {
		t.Fatalf("expected 401 for unknown user, got %v", err)
	}
}

func TestUpdateDisplayNameLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	u, err := svc.Register(ctx, "carol@example.com", "pw", "Carol")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := svc.UpdateDisplayName(ctx, u.ID, string(long)); apperr.Status(err) != 400 {
		t.Fatalf("expected 400 for long name, got %v", err)
	}

	got, err := svc.UpdateDisplayName(ctx, u.ID, "  Caroline  ")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.DisplayName != "Caroline" {
		t.Fatalf("expected trimmed name, got %q", got.DisplayName)
	}
}
