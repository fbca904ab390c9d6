package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/postmasterly/dmarcview/internal/config"
)

func authConfig(t *testing.T, password string) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &config.Config{
		AnalystEmail:        "analyst@example.org",
		AnalystPasswordHash: string(hash),
		JWTSecret:           "test-secret",
		JWTExpiry:           time.Hour,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	cfg := authConfig(t, "hunter2")
	svc := NewAuthService(cfg)

	signed, err := svc.Login("analyst@example.org", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "analyst@example.org" {
		t.Errorf("sub = %v, want analyst email", claims["sub"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(authConfig(t, "hunter2"))

	testCases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong email", "intruder@example.org", "hunter2"},
		{"wrong password", "analyst@example.org", "letmein"},
		{"both wrong", "intruder@example.org", "letmein"},
	}

	for _, tc := range testCases {
		if _, err := svc.Login(tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}
