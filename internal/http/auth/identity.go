package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/sifan077/shortlink/internal/errors"
)

// IdentitySupplier turns a session token into the id of the signed-in owner.
// Any failure is reported as apperrors.ErrUnauthenticated.
type IdentitySupplier interface {
	Identify(ctx context.Context, token string) (string, error)
}

// JWTSupplier verifies HS256 session tokens issued by the identity provider
// and reports their subject as the owner id.
type JWTSupplier struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTSupplier(secret, issuer string) (*JWTSupplier, error) {
	if secret == "" {
		return nil, errors.New("auth: jwt secret is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWTSupplier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

func (s *JWTSupplier) Identify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", apperrors.ErrUnauthenticated)
	}
	return claims.Subject, nil
}
