// Package token encodes and decodes the signed, expiring credentials used by
// the API: a short-lived access token carrying the caller's profile claims
// and a long-lived refresh token carrying only the subject id. Verification
// is stateless; there is no server-side session store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acme/accounts-api/internal/core/domain"
)

// Kind distinguishes the two token tiers.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the payload carried by both token kinds. Access tokens fill the
// profile fields; refresh tokens carry only the subject and kind.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Kind     Kind   `json:"token_type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide HS256 secret loaded
// once at startup. No expiry leeway is applied.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewCodec builds a Codec. Non-positive TTLs fall back to 1h access / 7d refresh.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue produces a signed access/refresh pair for the user.
func (c *Codec) Issue(user *domain.User) (accessToken, refreshToken string, err error) {
	now := c.now().UTC()

	accessToken, err = c.sign(Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Kind:     KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err = c.sign(Claims{
		Kind: KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	})
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (c *Codec) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token, requiring the expected kind.
// Failures map to the domain taxonomy: expiry → ErrTokenExpired, any
// signature/format problem or missing required field → ErrTokenMalformed,
// kind mismatch → ErrWrongTokenKind.
func (c *Codec) Verify(tokenString string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenMalformed
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrTokenMalformed
	}
	if claims.Kind != kind {
		return nil, domain.ErrWrongTokenKind
	}
	return claims, nil
}
