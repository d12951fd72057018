package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserClaims is what the session collaborator encodes in its tokens. The
// subject is an opaque user identifier; nothing downstream inspects it
// beyond attaching it to bookings.
type UserClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const userIDKey contextKey = "auth.userID"

// UserID returns the authenticated user id from the request context, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Authenticator validates bearer tokens issued by the session service.
type Authenticator struct {
	secret []byte
	logger *zap.Logger
}

// New creates an Authenticator with the shared HMAC secret.
func New(secret string, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// IssueToken mints a token for tests and local tooling.
func (a *Authenticator) IssueToken(userID, role string, ttl time.Duration) (string, error) {
	claims := UserClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(r *http.Request) (*UserClaims, error) {
	tokenString := ""
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return nil, fmt.Errorf("authorization token missing")
	}

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Identify attaches the user id to the request context when a valid token is
// present. Anonymous requests pass through; booking is open to guests.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := a.parse(r); err == nil && claims.Subject != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, claims.Subject))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without a valid admin token.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r)
		if err != nil {
			a.logger.Warn("admin auth failed", zap.String("path", r.URL.Path), zap.Error(err))
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if claims.Role != "admin" && claims.Role != "supplier" {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), userIDKey, claims.Subject))
		next.ServeHTTP(w, r)
	})
}
