package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/sifan077/shortlink/internal/errors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "https://clerk.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
}

func TestJWTSupplier_Identify(t *testing.T) {
	s, err := NewJWTSupplier(testSecret, "https://clerk.example.com")
	if err != nil {
		t.Fatalf("NewJWTSupplier error: %v", err)
	}

	owner, err := s.Identify(context.Background(), signToken(t, testSecret, validClaims("user_123")))
	if err != nil {
		t.Fatalf("Identify error: %v", err)
	}
	if owner != "user_123" {
		t.Fatalf("owner = %q, want user_123", owner)
	}
}

func TestJWTSupplier_Rejects(t *testing.T) {
	s, err := NewJWTSupplier(testSecret, "https://clerk.example.com")
	if err != nil {
		t.Fatalf("NewJWTSupplier error: %v", err)
	}

	expired := validClaims("user_123")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims("user_123")
	wrongIssuer.Issuer = "https://evil.example.com"

	noExpiry := validClaims("user_123")
	noExpiry.ExpiresAt = nil

	noSubject := validClaims("")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("user_123"))
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, "other-secret", validClaims("user_123"))},
		{"expired", signToken(t, testSecret, expired)},
		{"wrong issuer", signToken(t, testSecret, wrongIssuer)},
		{"no expiry", signToken(t, testSecret, noExpiry)},
		{"no subject", signToken(t, testSecret, noSubject)},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Identify(context.Background(), tt.token)
			if !errors.Is(err, apperrors.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestNewJWTSupplier_EmptySecret(t *testing.T) {
	if _, err := NewJWTSupplier("", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
