// Package auth provides session tokens, password hashing and the role-scoped
// access gate for the marketplace API.
//
// SESSION FLOW OVERVIEW:
// 1. The client POSTs /auth/login (or /auth/register) with credentials and a role
// 2. The service verifies them against the role's partition in the store
// 3. The server issues a signed token carrying {userID, role} and stores it
//    in an HttpOnly cookie — the cookie jar is the durable session mirror
// 4. On every request, middleware reads the cookie, validates the token, and
//    places a Principal in the request context
// 5. Route groups consult the access gate (gate.go) with that Principal
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. Everything needed to restore the session (id, role, expiry) is inside
// the signed token, and the signature ensures nobody can tamper with it
// without the secret key. A corrupted or forged cookie simply fails
// validation and the request proceeds as anonymous.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
)

// sessionTTL is how long an issued session stays valid. Long enough to
// survive reloads and return visits, bounded so a stolen cookie eventually
// dies on its own.
const sessionTTL = 24 * time.Hour

const issuer = "workedin"

// Principal is the authenticated identity restored from a session token:
// just enough to make authorization decisions without a store lookup.
//
// The id alone is NOT globally unique — the three partitions number their
// rows independently, so worker 7 and employer 7 are different people.
// UserID is only meaningful together with Role.
type Principal struct {
	UserID string
	Role   model.Role
}

// TokenService signs and validates session tokens.
// It holds the HMAC secret key; the same secret must be used for both
// operations — keep it safe, rotate it periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload. It embeds jwt.RegisteredClaims (Subject,
// ExpiresAt, IssuedAt, Issuer) and adds the role, because the subject id is
// only unique within its role partition.
type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Generate creates and signs a session token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and sufficient
// for a single-server deployment.
func (s *TokenService) Generate(userID string, role model.Role) (string, error) {
	return s.GenerateWithDuration(userID, role, sessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, role model.Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the Principal it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks: without
//     jwt.WithValidMethods an attacker could submit an alg=none token)
//
// On top of that we check the role claim still names a known partition, so a
// token minted before a role was removed can't smuggle a stale role through.
func (s *TokenService) Validate(tokenStr string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	role, err := model.ParseRole(c.Role)
	if err != nil {
		return nil, fmt.Errorf("auth: token has invalid role: %w", err)
	}

	return &Principal{UserID: c.Subject, Role: role}, nil
}
