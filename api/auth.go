package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/warp/backoffice/office"
)

type contextKey string

const contractorKey contextKey = "contractor"

// Authenticator verifies HS256 bearer tokens. The token subject is the
// contractor ID every request is scoped to.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware rejects requests without a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		contractorID, err := a.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token", err)
			return
		}

		ctx := context.WithValue(r.Context(), contractorKey, contractorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verify parses the token and returns its subject.
func (a *Authenticator) Verify(token string) (office.ContractorID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", office.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", errors.Join(office.ErrUnauthorized, errors.New("token has no subject"))
	}
	return office.ContractorID(claims.Subject), nil
}

// Issue signs a token for the contractor, valid for ttl.
func (a *Authenticator) Issue(contractorID office.ContractorID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(contractorID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// contractorFrom returns the authenticated contractor of the request.
func contractorFrom(r *http.Request) office.ContractorID {
	id, _ := r.Context().Value(contractorKey).(office.ContractorID)
	return id
}
