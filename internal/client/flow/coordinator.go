package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/services"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
	"github.com/dmitrijs2005/gamehub/internal/logging"
)

var ErrNotAllowed = errors.New("not available in the current state")

// Coordinator drives the sign-in flow and gates the account operations.
// Every request it issues is tagged with the generation it started in; an
// answer that comes back after the generation moved on is dropped.
type Coordinator struct {
	store       session.Store
	credentials services.CredentialService
	accounts    services.AccountService
	finalizer   services.Finalizer
	client      client.Client
	logger      logging.Logger

	challengeOpts []services.ChallengeOption
	onChange      func(from, to State)

	mu        sync.Mutex
	state     State
	gen       uint64
	pending   *models.PendingVerification
	challenge *services.Challenge
	verified  *models.UserProfile
}

type Option func(*Coordinator)

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithChallengeOptions are passed to every Challenge the coordinator opens.
func WithChallengeOptions(opts ...services.ChallengeOption) Option {
	return func(c *Coordinator) { c.challengeOpts = append(c.challengeOpts, opts...) }
}

// WithStateListener registers fn to run after every state change. fn is
// called without the coordinator lock held.
func WithStateListener(fn func(from, to State)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

func NewCoordinator(c client.Client, store session.Store, sink services.ExportSink, opts ...Option) *Coordinator {
	co := &Coordinator{
		store:  store,
		client: c,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(co)
	}

	co.credentials = services.NewCredentialService(c, co.logger)
	co.finalizer = services.NewFinalizer(store, co.logger, co.authenticated)
	co.accounts = services.NewAccountService(c, store, sink, co.logger, co.signedOut)
	co.challengeOpts = append([]services.ChallengeOption{services.WithChallengeLogger(co.logger)}, co.challengeOpts...)
	return co
}

// Start picks the initial state from the stored session.
func (c *Coordinator) Start(ctx context.Context) State {
	s, err := c.store.Get(ctx)

	c.mu.Lock()
	from := c.state
	c.reset()
	switch {
	case err != nil:
		c.state = Credentials
	case s.User.IsActive:
		c.state = Authenticated
	default:
		c.state = Deactivated
	}
	to := c.state
	c.mu.Unlock()

	c.notify(from, to)
	return to
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Pending() *models.PendingVerification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// Challenge returns the open challenge while Verifying, else nil.
func (c *Coordinator) Challenge() *services.Challenge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.challenge
}

// VerifiedUser is the user awaiting acknowledgment.
func (c *Coordinator) VerifiedUser() *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verified == nil {
		return nil
	}
	u := *c.verified
	return &u
}

func (c *Coordinator) Accounts() services.AccountService { return c.accounts }

// apply moves to the state reached on e. Callers hold c.mu.
func (c *Coordinator) apply(e Event) (from, to State, err error) {
	from = c.state
	to, err = Transition(from, e)
	if err != nil {
		return from, from, err
	}
	c.state = to
	c.logger.Debug(context.Background(), "flow transition", "from", from, "event", e, "to", to)
	return from, to, nil
}

func (c *Coordinator) notify(from, to State) {
	if c.onChange != nil && from != to {
		c.onChange(from, to)
	}
}

// reset drops all per-attempt state and invalidates answers in flight.
// Callers hold c.mu.
func (c *Coordinator) reset() {
	if c.challenge != nil {
		c.challenge.Back()
	}
	c.challenge = nil
	c.pending = nil
	c.verified = nil
	c.gen++
}

// Submit sends the credential form. Only a backend-accepted request moves the
// flow on to verification.
func (c *Coordinator) Submit(ctx context.Context, purpose models.Purpose, draft models.CredentialDraft) error {
	c.mu.Lock()
	if c.state != Credentials {
		c.mu.Unlock()
		return fmt.Errorf("%w: submit while %s", ErrNotAllowed, c.state)
	}
	gen := c.gen
	c.mu.Unlock()

	pending, err := c.credentials.Submit(ctx, purpose, draft)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.gen || c.state != Credentials {
		c.mu.Unlock()
		return services.ErrStaleResponse
	}
	c.pending = pending
	c.challenge = services.NewChallenge(c.client, c.finalizer, *pending, c.challengeOpts...)
	from, to, err := c.apply(Submitted)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.notify(from, to)
	return nil
}

// authenticated runs from the Finalizer under the challenge lock, so it must
// not take c.mu.
func (c *Coordinator) authenticated(ctx context.Context, u models.UserProfile) {
	c.logger.Info(ctx, "user authenticated", "user_id", u.ID, "active", u.IsActive)
}

// Verify submits the entered code of the open challenge.
func (c *Coordinator) Verify(ctx context.Context) (*models.UserProfile, error) {
	c.mu.Lock()
	ch := c.challenge
	if c.state != Verifying || ch == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: verify while %s", ErrNotAllowed, c.state)
	}
	c.mu.Unlock()

	user, err := ch.Submit(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.challenge != ch {
		// the flow left verification after this session was stored
		c.discardSession(ctx, user.ID)
		c.mu.Unlock()
		return nil, services.ErrStaleResponse
	}
	c.challenge = nil
	c.pending = nil
	c.verified = user
	from, to, err := c.apply(Verified)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.notify(from, to)
	return user, nil
}

// discardSession removes a session stored for userID by an abandoned
// verification. Callers hold c.mu; a signed-in state keeps its session.
func (c *Coordinator) discardSession(ctx context.Context, userID string) {
	if c.state == Authenticated || c.state == Deactivated || c.state == Acknowledging {
		return
	}
	s, err := c.store.Get(ctx)
	if err != nil || s.User.ID != userID {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error(ctx, "discarding abandoned session failed", "error", err)
		return
	}
	c.logger.Info(ctx, "discarded session of abandoned verification", "user_id", userID)
}

// Resend asks for a new code for the open challenge.
func (c *Coordinator) Resend(ctx context.Context) error {
	ch := c.Challenge()
	if ch == nil {
		return fmt.Errorf("%w: resend without a challenge", ErrNotAllowed)
	}
	return ch.Resend(ctx)
}

// Back abandons verification and returns to the credential form.
func (c *Coordinator) Back() error {
	c.mu.Lock()
	if c.state != Verifying {
		c.mu.Unlock()
		return fmt.Errorf("%w: back while %s", ErrNotAllowed, c.state)
	}
	c.reset()
	from, to, err := c.apply(Back)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(from, to)
	return nil
}

// Acknowledge ends the success acknowledgment. An inactive account lands in
// Deactivated where only reactivate, delete and logout are offered.
func (c *Coordinator) Acknowledge(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state != Acknowledging || c.verified == nil {
		st := c.state
		c.mu.Unlock()
		return st, fmt.Errorf("%w: acknowledge while %s", ErrNotAllowed, st)
	}
	e := Acknowledged
	if !c.verified.IsActive {
		e = Inactive
	}
	c.verified = nil
	from, to, err := c.apply(e)
	c.mu.Unlock()
	if err != nil {
		return from, err
	}
	c.notify(from, to)
	return to, nil
}

// signedOut runs from the AccountService after every session teardown.
func (c *Coordinator) signedOut(ctx context.Context, reason services.SignOutReason) {
	c.mu.Lock()
	from := c.state
	c.reset()
	_, to, err := c.apply(SignedOut)
	c.mu.Unlock()
	if err != nil {
		c.logger.Warn(ctx, "sign-out in unexpected state", "state", from, "reason", reason)
		return
	}
	c.notify(from, to)
}

// Guard sends the user back to the credential form when the session vanished
// underneath a signed-in state.
func (c *Coordinator) Guard(ctx context.Context) State {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()

	if st != Authenticated && st != Deactivated && st != Acknowledging {
		return st
	}
	if _, err := c.store.Get(ctx); !session.IsNoSession(err) {
		return st
	}
	c.signedOut(ctx, services.SignOutRevoked)
	return c.State()
}

func (c *Coordinator) require(states ...State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range states {
		if c.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotAllowed, c.state)
}

func (c *Coordinator) Export(ctx context.Context) (string, error) {
	if err := c.require(Authenticated); err != nil {
		return "", err
	}
	return c.accounts.Export(ctx)
}

func (c *Coordinator) Deactivate(ctx context.Context, confirmed bool) error {
	if err := c.require(Authenticated); err != nil {
		return err
	}
	return c.accounts.Deactivate(ctx, confirmed)
}

func (c *Coordinator) Delete(ctx context.Context, confirmed bool) error {
	if err := c.require(Authenticated, Deactivated); err != nil {
		return err
	}
	return c.accounts.Delete(ctx, confirmed)
}

func (c *Coordinator) Logout(ctx context.Context) error {
	if err := c.require(Authenticated, Deactivated); err != nil {
		return err
	}
	return c.accounts.Logout(ctx)
}

func (c *Coordinator) Reactivate(ctx context.Context) (*models.UserProfile, error) {
	if err := c.require(Deactivated); err != nil {
		return nil, err
	}
	u, err := c.accounts.Reactivate(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	from, to, err := c.apply(Reactivated)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c.notify(from, to)
	return u, nil
}

// Refresh reconciles the signed-in profile with the backend. Errors are for
// logging only.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if c.require(Authenticated, Deactivated) != nil {
		return nil
	}
	return c.accounts.RefreshProfile(ctx)
}
