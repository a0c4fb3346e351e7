package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gamehub/internal/client/models"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrInvalidSession = errors.New("session requires both user and token")
)

// Store is the single owner of the Session record.
type Store interface {
	// Get returns a copy of the live session or ErrNoSession.
	Get(ctx context.Context) (*models.Session, error)
	// Set persists user and token together, replacing any prior record.
	Set(ctx context.Context, s *models.Session) error
	// UpdateUser rewrites the user half of the live record.
	UpdateUser(ctx context.Context, u models.UserProfile) error
	// Clear destroys the record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Token returns the bearer token of the live session.
	Token(ctx context.Context) (string, error)
}
