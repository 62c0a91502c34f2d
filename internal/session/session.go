// Package session resolves the caller of a request into an explicit Session value
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/portstu/backend/internal/models"
	"go.uber.org/zap"
)

// AccessTokenCookie is the cookie the web front end stores the access token in
const AccessTokenCookie = "access_token"

// Session describes who is calling. The zero value is an anonymous session.
type Session struct {
	user *models.User
}

// New returns a session for an authenticated user
func New(user *models.User) *Session {
	return &Session{user: user}
}

// Anonymous returns a session without a user
func Anonymous() *Session {
	return &Session{}
}

// IsLoggedIn reports whether the session belongs to a known user
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.user != nil
}

// CurrentUser returns the logged in user or nil
func (s *Session) CurrentUser() *models.User {
	if s == nil {
		return nil
	}
	return s.user
}

// TokenValidator validates access tokens and extracts the user ID
type TokenValidator interface {
	ValidateAccessToken(token string) (int, error)
}

// UserRepository loads users by ID
type UserRepository interface {
	// GetByID returns models.ErrNotFound when the user does not exist
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Resolver builds a Session from the request credentials
type Resolver struct {
	tokens TokenValidator
	users  UserRepository
	logger *zap.Logger
}

// NewResolver creates a new session resolver
func NewResolver(tokens TokenValidator, users UserRepository, logger *zap.Logger) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Resolve returns the caller's session.
// Missing, invalid or expired credentials and deleted users produce an anonymous session;
// only storage failures are returned as errors.
func (r *Resolver) Resolve(req *http.Request) (*Session, error) {
	token := extractToken(req)
	if token == "" {
		return Anonymous(), nil
	}

	userID, err := r.tokens.ValidateAccessToken(token)
	if err != nil {
		r.logger.Debug("rejected access token", zap.Error(err))
		return Anonymous(), nil
	}

	user, err := r.users.GetByID(req.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Debug("access token for unknown user", zap.Int("user_id", userID))
			return Anonymous(), nil
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return New(user), nil
}

// extractToken reads the token from the Authorization header, then from the cookie
func extractToken(req *http.Request) string {
	if authHeader := req.Header.Get("Authorization"); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := req.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}
