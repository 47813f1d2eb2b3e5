package auth

import (
	"errors"
	"fmt"

	"coursedates/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a TokenVerifier that accepts HS256 JWTs signed with the given secret.
func NewJWTVerifier(secret string) domain.TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token. The identity's username is the
// preferred_username claim, falling back to the subject.
func (v *jwtVerifier) Verify(token string) (domain.Identity, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid token: %w", errors.Join(domain.ErrUnauthorized, err))
	}
	if !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return domain.Identity{}, fmt.Errorf("token has no subject: %w", domain.ErrUnauthorized)
	}
	return domain.Identity{Username: username, Token: token}, nil
}
