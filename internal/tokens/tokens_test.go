package tokens

import (
	"testing"
	"time"

	"github.com/ArmaanM08/WikiDoCollab/internal/models"
)

func TestGenerateAndVerify(t *testing.T) {
	u := &models.User{ID: "u1", Email: "a@b.c", DisplayName: "A"}
	raw, err := GenerateAccessToken("secret", u, time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	id, err := VerifyAccessToken("secret", raw)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id.UserID != "u1" || id.Email != "a@b.c" || id.DisplayName != "A" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	u := &models.User{ID: "u1", Email: "a@b.c"}
	raw, err := GenerateAccessToken("secret", u, time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := VerifyAccessToken("other", raw); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	u := &models.User{ID: "u1"}
	raw, err := GenerateAccessToken("secret", u, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := VerifyAccessToken("secret", raw); err == nil {
		t.Fatalf("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := VerifyAccessToken("secret", "not-a-token"); err == nil {
		t.Fatalf("expected verification failure for malformed token")
	}
}
