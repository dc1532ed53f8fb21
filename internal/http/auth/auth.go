// Package auth issues and verifies the short-lived bearer tokens the API
// hands out on unlock. Tokens carry the session epoch, so locking the
// vault invalidates every outstanding token at once.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cofferapp/coffer/internal/vault"
)

type Claims struct {
	Epoch uint64 `json:"epoch"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token bound to the given session epoch.
func (i *Issuer) Issue(epoch uint64) (string, time.Time, error) {
	expires := time.Now().Add(i.ttl)

	claims := Claims{
		Epoch: epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return token, expires, nil
}

// Parse verifies the signature and expiry and returns the claims.
func (i *Issuer) Parse(token string) (*Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return &claims, nil
}

// Middleware rejects requests without a valid bearer token for the
// session's current unlocked epoch.
func (i *Issuer) Middleware(session *vault.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := i.Parse(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if !session.Unlocked() || claims.Epoch != session.Epoch() {
				http.Error(w, "session is locked", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
