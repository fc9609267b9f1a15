package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxCallerID ctxKey = "caller_id"

// Authenticator resolves the acting user from a bearer token.
type Authenticator struct {
	Secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{Secret: []byte(secret)}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}
		userID, err := a.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxCallerID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) Verify(token string) (int, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return a.Secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !parsed.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("missing user_id claim")
	}
	return int(id), nil
}

func (a *Authenticator) Issue(userID int, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// CallerID is the authenticated user id placed in the request context by the
// middleware.
func CallerID(r *http.Request) int {
	id, _ := r.Context().Value(ctxCallerID).(int)
	return id
}
