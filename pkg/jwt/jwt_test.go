package jwt

import (
	"testing"
	"time"

	"duty-roster/backend/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: ttl,
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager(12 * time.Hour)

	token, err := m.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望 Role=admin，实际=%s", claims.Role)
	}
	if claims.Issuer != "duty-roster" {
		t.Errorf("期望 Issuer=duty-roster，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-for-unit-testing",
		AccessTokenTTL: time.Hour,
	})

	token, err := m.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
