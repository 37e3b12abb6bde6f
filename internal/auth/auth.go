// Package auth exchanges identity-provider tokens for user identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSignInCancelled is returned when no token was provided.
	ErrSignInCancelled = errors.New("sign-in cancelled")
	// ErrSignInFailed is returned when the token cannot be verified.
	ErrSignInFailed = errors.New("sign-in failed")

	errNoSecret = errors.New("no signing secret configured")
)

// Identity is the signed-in user as asserted by the identity provider.
type Identity struct {
	UserID string
	Name   string
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Exchange verifies token and returns the identity it carries.
func (v *Verifier) Exchange(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrSignInCancelled
	}

	// An empty HMAC key would accept tokens anyone can forge.
	if len(v.secret) == 0 {
		return Identity{}, fmt.Errorf("%w: %w", ErrSignInFailed, errNoSecret)
	}

	if err := ctx.Err(); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}

	if !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", ErrSignInFailed)
	}

	if c.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrSignInFailed)
	}

	return Identity{UserID: c.Subject, Name: c.Name}, nil
}

// Issuer mints tokens accepted by a Verifier sharing the same secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer whose tokens expire after ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the identity.
func (i *Issuer) Issue(identity Identity) (string, error) {
	if len(i.secret) == 0 {
		return "", errNoSecret
	}

	now := i.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
