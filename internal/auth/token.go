package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// TokenConfig holds the verification settings for identity tokens.
type TokenConfig struct {
	Secret string
	Issuer string
}

// IdentityClaims is the token payload the identity provider signs.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// ParseIdentityToken validates a bearer token and returns the identity it carries.
func ParseIdentityToken(cfg TokenConfig, tokenString string) (Identity, error) {
	if cfg.Secret == "" {
		return Identity{}, fmt.Errorf("jwt secret is required")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwtSigningMethod.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		return Identity{}, err
	}

	email := NormalizeEmail(claims.Email)
	if email == "" {
		return Identity{}, fmt.Errorf("token carries no email")
	}

	return Identity{
		Subject:     claims.Subject,
		Email:       email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}

// MintIdentityToken signs an identity token. Production tokens come from the
// identity provider; this is used by local tooling and tests.
func MintIdentityToken(cfg TokenConfig, id Identity, now time.Time, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	claims := IdentityClaims{
		Email:   strings.TrimSpace(id.Email),
		Name:    id.DisplayName,
		Picture: id.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
