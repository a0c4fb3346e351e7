package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
	"github.com/dmitrijs2005/gamehub/internal/logging"
)

// Finalizer turns a verified user/token pair into the live Session.
// It is the only writer that creates a Session.
type Finalizer interface {
	Finalize(ctx context.Context, user models.UserProfile, token string) error
}

type finalizer struct {
	store           session.Store
	logger          logging.Logger
	onAuthenticated func(ctx context.Context, user models.UserProfile)
}

// NewFinalizer returns a Finalizer writing to store. onAuthenticated, when not
// nil, runs after the session has been stored.
func NewFinalizer(store session.Store, logger logging.Logger, onAuthenticated func(ctx context.Context, user models.UserProfile)) Finalizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &finalizer{store: store, logger: logger, onAuthenticated: onAuthenticated}
}

func (f *finalizer) Finalize(ctx context.Context, user models.UserProfile, token string) error {
	s := &models.Session{User: user, Token: token}
	if !s.Valid() {
		return ErrMalformedSession
	}

	if err := f.store.Set(ctx, s); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	f.logger.Info(ctx, "session established", "user_id", user.ID, "active", user.IsActive)
	if f.onAuthenticated != nil {
		f.onAuthenticated(ctx, user)
	}
	return nil
}
