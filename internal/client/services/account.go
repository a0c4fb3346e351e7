package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
	"github.com/dmitrijs2005/gamehub/internal/logging"
)

// SignOutReason tells the host why the session ended.
type SignOutReason string

const (
	SignOutLogout      SignOutReason = "logout"
	SignOutDeactivated SignOutReason = "deactivated"
	SignOutDeleted     SignOutReason = "deleted"
	SignOutRevoked     SignOutReason = "revoked"
)

// AccountService runs the account lifecycle operations of a signed-in user.
//
// Contract:
//   - Every operation needs a live session, otherwise session.ErrNoSession
//     is returned and nothing is sent.
//   - A failed server call never touches the session.
//   - Deactivate and Delete need confirmed=true and end the session only
//     after the backend confirmed the change.
//   - RefreshProfile is meant for background use; callers only log its error.
type AccountService interface {
	Export(ctx context.Context) (string, error)
	Deactivate(ctx context.Context, confirmed bool) error
	Reactivate(ctx context.Context) (*models.UserProfile, error)
	Delete(ctx context.Context, confirmed bool) error
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) error
}

type accountService struct {
	client      client.Client
	store       session.Store
	sink        ExportSink
	logger      logging.Logger
	now         func() time.Time
	onSignedOut func(ctx context.Context, reason SignOutReason)
}

// NewAccountService wires the lifecycle operations. onSignedOut, when not nil,
// runs after every teardown of the session.
func NewAccountService(c client.Client, store session.Store, sink ExportSink, logger logging.Logger,
	onSignedOut func(ctx context.Context, reason SignOutReason)) AccountService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &accountService{
		client:      c,
		store:       store,
		sink:        sink,
		logger:      logger,
		now:         time.Now,
		onSignedOut: onSignedOut,
	}
}

func (a *accountService) Export(ctx context.Context) (string, error) {
	s, err := a.store.Get(ctx)
	if err != nil {
		return "", err
	}

	data, err := a.client.ExportData(ctx, s.User.ID)
	if err != nil {
		a.logger.Warn(ctx, "export failed", "user_id", s.User.ID, "error", err)
		return "", err
	}

	artifact, err := buildExportArtifact(s.User.ID, data, a.now())
	if err != nil {
		return "", err
	}

	location, err := a.sink.Save(ctx, artifact)
	if err != nil {
		a.logger.Error(ctx, "saving export failed", "error", err)
		return "", err
	}

	a.logger.Info(ctx, "export saved", "user_id", s.User.ID, "location", location)
	return location, nil
}

func buildExportArtifact(userID string, data json.RawMessage, now time.Time) (*models.ExportArtifact, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("format export: %w", err)
	}
	buf.WriteByte('\n')

	return &models.ExportArtifact{
		Name:        fmt.Sprintf("gamehub-export-%s-%s.json", userID, now.UTC().Format("20060102-150405")),
		ContentType: "application/json",
		Body:        buf.Bytes(),
		CreatedAt:   now,
	}, nil
}

func (a *accountService) Deactivate(ctx context.Context, confirmed bool) error {
	s, err := a.store.Get(ctx)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	st, err := a.client.SetAccountStatus(ctx, s.User.ID, false)
	if err != nil {
		a.logger.Warn(ctx, "deactivation failed", "user_id", s.User.ID, "error", err)
		return err
	}

	u := s.User
	u.IsActive = st.IsActive
	if err := a.store.UpdateUser(ctx, u); err != nil {
		a.logger.Warn(ctx, "updating cached profile failed", "error", err)
	}

	a.teardown(ctx, SignOutDeactivated)
	return nil
}

func (a *accountService) Reactivate(ctx context.Context) (*models.UserProfile, error) {
	s, err := a.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	st, err := a.client.SetAccountStatus(ctx, s.User.ID, true)
	if err != nil {
		a.logger.Warn(ctx, "reactivation failed", "user_id", s.User.ID, "error", err)
		return nil, err
	}

	u := s.User
	u.IsActive = st.IsActive
	if err := a.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "account reactivated", "user_id", u.ID)
	return &u, nil
}

func (a *accountService) Delete(ctx context.Context, confirmed bool) error {
	s, err := a.store.Get(ctx)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := a.client.DeleteAccount(ctx, s.User.ID); err != nil {
		a.logger.Warn(ctx, "account deletion failed", "user_id", s.User.ID, "error", err)
		return err
	}

	a.teardown(ctx, SignOutDeleted)
	return nil
}

func (a *accountService) Logout(ctx context.Context) error {
	if _, err := a.store.Get(ctx); err != nil {
		return err
	}
	a.teardown(ctx, SignOutLogout)
	return nil
}

// RefreshProfile reconciles the cached profile with the backend. An account
// that became inactive or a token the backend no longer accepts ends the
// session locally.
func (a *accountService) RefreshProfile(ctx context.Context) error {
	s, err := a.store.Get(ctx)
	if err != nil {
		return err
	}

	fresh, err := a.client.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) && a.sameUser(ctx, s.User.ID) {
			a.teardown(ctx, SignOutRevoked)
		}
		return err
	}

	if !a.sameUser(ctx, s.User.ID) || fresh.ID != s.User.ID {
		return ErrStaleResponse
	}

	if s.User.IsActive && !fresh.IsActive {
		a.teardown(ctx, SignOutDeactivated)
		return nil
	}

	if *fresh != s.User {
		return a.store.UpdateUser(ctx, *fresh)
	}
	return nil
}

func (a *accountService) sameUser(ctx context.Context, id string) bool {
	cur, err := a.store.Get(ctx)
	return err == nil && cur.User.ID == id
}

func (a *accountService) teardown(ctx context.Context, reason SignOutReason) {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "clearing session failed", "error", err)
	}
	a.logger.Info(ctx, "signed out", "reason", reason)
	if a.onSignedOut != nil {
		a.onSignedOut(ctx, reason)
	}
}
