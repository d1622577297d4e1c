package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/workhub/collab-api/internal/core/domain"
)

const bcryptCost = 10

// Credentials hashes and verifies passwords and issues and verifies the
// signed session tokens carrying identity and role. Tokens are stateless:
// validity is entirely determined by signature and expiry.
type Credentials struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewCredentials builds a Credentials service. An empty secret is a
// configuration error and fails here, at construction, not per call.
func NewCredentials(secret string, tokenTTL time.Duration) (*Credentials, error) {
	if secret == "" {
		return nil, domain.ErrMissingSecret
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Credentials{secret: []byte(secret), tokenTTL: tokenTTL}, nil
}

// HashPassword returns the bcrypt hash of plaintext.
func (c *Credentials) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func (c *Credentials) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given user and returns it with
// its expiry time.
func (c *Credentials) IssueToken(userID, role string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(c.tokenTTL)

	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// VerifyToken parses and validates a session token, returning the identity
// it encodes. Expiry is reported as domain.ErrTokenExpired; a malformed or
// tampered token as domain.ErrInvalidToken.
func (c *Credentials) VerifyToken(token string) (domain.Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{ID: claims.Subject, Role: claims.Role}, nil
}
