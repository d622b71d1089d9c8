package handlers

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ArmaanM08/WikiDoCollab/internal/config"
	"github.com/ArmaanM08/WikiDoCollab/internal/document/repository"
	"github.com/ArmaanM08/WikiDoCollab/internal/document/service"
	"github.com/ArmaanM08/WikiDoCollab/internal/models"
	"github.com/ArmaanM08/WikiDoCollab/internal/sessions"
	"github.com/ArmaanM08/WikiDoCollab/internal/tokens"
	"github.com/ArmaanM08/WikiDoCollab/internal/users"
)

// memUserRepo is an in-memory users.UserRepository for handler tests.
type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
	seq  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*models.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == u.Email {
			return nil, users.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		m.seq++
		u.ID = "u" + strconv.Itoa(m.seq)
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	m.byID[u.ID] = &cp
	return u, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.User{}
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUserRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.DisplayName = displayName
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// testEnv wires every handler against in-memory stores and a miniredis.
type testEnv struct {
	router   *gin.Engine
	cfg      *config.Config
	userRepo *memUserRepo
	docs     *repository.MemoryDocumentRepo
	versions *repository.MemoryVersionRepo
	docSvc   *service.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = time.Hour

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := newMemUserRepo()
	usersSvc := users.NewService(userRepo)
	sessionsSvc := sessions.NewService(sessions.NewRedisRepository(rdb, ""))

	docs := repository.NewMemoryDocumentRepo()
	versions := repository.NewMemoryVersionRepo()
	docSvc := service.NewService(docs, versions, userRepo, nil)

	r := gin.New()
	api := r.Group("/api")
	NewAuthHandler(cfg, usersSvc, sessionsSvc).Register(api)
	NewDocumentHandler(docSvc, cfg.JWT.Secret).Register(api)

	return &testEnv{router: r, cfg: cfg, userRepo: userRepo, docs: docs, versions: versions, docSvc: docSvc}
}

// seedUser inserts a user directly and returns it with a valid bearer token.
func (e *testEnv) seedUser(t *testing.T, id, email, name string) (*models.User, string) {
	t.Helper()
	u := &models.User{ID: id, Email: email, DisplayName: name, PasswordHash: "x"}
	_, err := e.userRepo.Create(context.Background(), u)
	require.NoError(t, err)
	tok, err := tokens.GenerateAccessToken(e.cfg.JWT.Secret, u, e.cfg.JWT.AccessTokenTTL)
	require.NoError(t, err)
	return u, tok
}
