package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ArmaanM08/WikiDoCollab/internal/models"
	"github.com/ArmaanM08/WikiDoCollab/pkg/apperr"
)

const maxDisplayNameLen = 100

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. Email is case-normalized; duplicates are a
// Conflict regardless of whether the lookup or the unique index catches them.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("missing fields")
	}
	email = NormalizeEmail(email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if err == ErrDuplicateEmail {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, err
	}
	return created, nil
}

// Authenticate verifies credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("missing fields")
	}
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthorized("user not found, please sign up")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return s.repo.ListByIDs(ctx, ids)
}

// UpdateDisplayName trims and stores a new display name, then returns the
// updated profile.
func (s *Service) UpdateDisplayName(ctx context.Context, id, displayName string) (*models.User, error) {
	name := strings.TrimSpace(displayName)
	if len(name) > maxDisplayNameLen {
		return nil, apperr.Validation("display name too long")
	}
	if err := s.repo.UpdateDisplayName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
