package middleware

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitticket/internal/auth"
)

type contextKey string

const (
	// UserIDKey holds the authenticated household account ID.
	UserIDKey contextKey = "user_id"
	// EmailKey holds the authenticated account email.
	EmailKey contextKey = "email"
)

// WithUser returns a context carrying the given identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// GetUserID returns the authenticated user ID, or "" for anonymous calls.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail returns the authenticated email, or "".
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// bearerClaims validates the Bearer token in the Authorization header.
func bearerClaims(jwtManager *auth.JWTManager, header http.Header) (*auth.Claims, error) {
	value := header.Get("Authorization")
	if value == "" {
		return nil, auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(value, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return nil, auth.ErrInvalidToken
	}
	return jwtManager.Validate(token)
}

// RequireAuth rejects calls without a valid Bearer token.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			claims, err := bearerClaims(jwtManager, req.Header())
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithUser(ctx, claims.UserID, claims.Email), req)
		}
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous calls through otherwise. Optimize works without an account;
// history, settings and the product archive check for a user themselves.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if claims, err := bearerClaims(jwtManager, req.Header()); err == nil {
				ctx = WithUser(ctx, claims.UserID, claims.Email)
			}
			return next(ctx, req)
		}
	}
}
