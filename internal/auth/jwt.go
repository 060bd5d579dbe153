// Package auth verifies bearer tokens issued by the identity provider and
// decides the admin capability.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator validates HS256 tokens and checks admin membership by email.
type Authenticator struct {
	secret []byte
	admins map[string]struct{}
}

func NewAuthenticator(secret string, adminEmails []string) *Authenticator {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Authenticator{secret: []byte(secret), admins: admins}
}

// Verify parses a raw token and returns the identity it carries. The subject
// claim is required.
func (a *Authenticator) Verify(raw string) (*Identity, error) {
	if len(a.secret) == 0 {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IsAdmin reports whether the identity's email is on the admin allow-list.
func (a *Authenticator) IsAdmin(id *Identity) bool {
	if id == nil || id.Email == "" {
		return false
	}
	_, ok := a.admins[strings.ToLower(strings.TrimSpace(id.Email))]
	return ok
}

// Sign issues a token for id. Used by tooling and tests; production tokens come
// from the identity provider.
func (a *Authenticator) Sign(id Identity, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = id.UserID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: id.Email, RegisteredClaims: claims})
	return token.SignedString(a.secret)
}
