package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/otp"
	"github.com/dmitrijs2005/gamehub/internal/logging"
)

// ResendNotice is shown after a new code has been requested.
const ResendNotice = "A new code has been sent."

// DefaultResendNoticeInterval is how long ResendNotice stays visible.
const DefaultResendNoticeInterval = 3 * time.Second

// ChallengeState is the phase of a verification attempt.
type ChallengeState int

const (
	ChallengeEntering ChallengeState = iota
	ChallengeSubmitting
	ChallengeVerified
	ChallengeClosed
)

func (s ChallengeState) String() string {
	switch s {
	case ChallengeEntering:
		return "entering"
	case ChallengeSubmitting:
		return "submitting"
	case ChallengeVerified:
		return "verified"
	case ChallengeClosed:
		return "closed"
	}
	return "unknown"
}

// ChallengeView is a consistent snapshot for rendering.
type ChallengeView struct {
	Email     string
	Purpose   models.Purpose
	State     ChallengeState
	Slots     [otp.Length]string
	Focus     int
	Complete  bool
	Error     string
	Notice    string
	Resending bool
}

// ChallengeOption customizes a Challenge.
type ChallengeOption func(*Challenge)

// WithResendNoticeInterval sets how long the resend confirmation is shown.
func WithResendNoticeInterval(d time.Duration) ChallengeOption {
	return func(c *Challenge) { c.noticeInterval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ChallengeOption {
	return func(c *Challenge) { c.now = now }
}

// WithChallengeLogger sets the logger.
func WithChallengeLogger(l logging.Logger) ChallengeOption {
	return func(c *Challenge) { c.logger = l }
}

// Challenge drives one OTP verification for a PendingVerification.
// Network calls run without the lock held; their results are applied only if
// the challenge generation did not change meanwhile.
type Challenge struct {
	client    client.Client
	finalizer Finalizer
	logger    logging.Logger
	pending   models.PendingVerification

	noticeInterval time.Duration
	now            func() time.Time

	mu          sync.Mutex
	entry       otp.Entry
	state       ChallengeState
	gen         uint64
	resending   bool
	lastErr     string
	notice      string
	noticeUntil time.Time
}

func NewChallenge(c client.Client, f Finalizer, pending models.PendingVerification, opts ...ChallengeOption) *Challenge {
	ch := &Challenge{
		client:         c,
		finalizer:      f,
		logger:         logging.Nop(),
		pending:        pending,
		noticeInterval: DefaultResendNoticeInterval,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

func (c *Challenge) Pending() models.PendingVerification { return c.pending }

// Edit applies fn to the code entry. Editing is refused once the challenge
// is verified or closed.
func (c *Challenge) Edit(fn func(e *otp.Entry)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ChallengeVerified || c.state == ChallengeClosed {
		return false
	}
	fn(&c.entry)
	return true
}

func (c *Challenge) View() ChallengeView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChallengeView{
		Email:     c.pending.Email,
		Purpose:   c.pending.Purpose,
		State:     c.state,
		Slots:     c.entry.Slots(),
		Focus:     c.entry.Focused(),
		Complete:  c.entry.Complete(),
		Error:     c.lastErr,
		Notice:    c.noticeLocked(),
		Resending: c.resending,
	}
}

// Notice returns the resend confirmation while it is still fresh.
func (c *Challenge) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noticeLocked()
}

func (c *Challenge) noticeLocked() string {
	if c.notice == "" {
		return ""
	}
	if !c.now().Before(c.noticeUntil) {
		c.notice = ""
	}
	return c.notice
}

// Submit verifies the entered code. On success the session is finalized and
// the verified user returned. Any failure clears every slot.
// The Finalizer runs under the challenge lock and must not call back into c.
func (c *Challenge) Submit(ctx context.Context) (*models.UserProfile, error) {
	c.mu.Lock()
	switch c.state {
	case ChallengeClosed:
		c.mu.Unlock()
		return nil, ErrChallengeClosed
	case ChallengeVerified:
		c.mu.Unlock()
		return nil, ErrAlreadyVerified
	case ChallengeSubmitting:
		c.mu.Unlock()
		return nil, ErrVerifyInFlight
	}
	if !c.entry.Complete() {
		c.mu.Unlock()
		return nil, ErrIncompleteCode
	}
	code := c.entry.Code()
	gen := c.gen
	c.state = ChallengeSubmitting
	c.lastErr = ""
	c.mu.Unlock()

	res, err := c.client.VerifyOTP(ctx, c.pending.Email, code, c.pending.Purpose)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.logger.Debug(ctx, "discarding stale verification answer", "purpose", c.pending.Purpose)
		return nil, ErrStaleResponse
	}

	if err == nil && (res == nil || res.User == nil) {
		err = ErrMalformedSession
	}
	if err == nil {
		err = c.finalizer.Finalize(ctx, *res.User, res.Token)
	}
	if err != nil {
		c.reject(ctx, err)
		return nil, err
	}

	c.state = ChallengeVerified
	c.notice = ""
	u := *res.User
	return &u, nil
}

func (c *Challenge) reject(ctx context.Context, err error) {
	c.entry.Clear()
	c.state = ChallengeEntering
	c.lastErr = UserMessage(err)
	c.logger.Info(ctx, "verification rejected", "purpose", c.pending.Purpose, "error", err)
}

// Resend asks the backend for a new code. The backend decides on rate limits.
func (c *Challenge) Resend(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.state == ChallengeClosed:
		c.mu.Unlock()
		return ErrChallengeClosed
	case c.state == ChallengeVerified:
		c.mu.Unlock()
		return ErrAlreadyVerified
	case c.resending:
		c.mu.Unlock()
		return ErrResendInFlight
	}
	gen := c.gen
	c.resending = true
	c.mu.Unlock()

	err := c.client.ResendOTP(ctx, c.pending.Email, c.pending.Purpose)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resending = false

	if gen != c.gen {
		return ErrStaleResponse
	}
	if err != nil {
		c.lastErr = UserMessage(err)
		c.logger.Info(ctx, "resend failed", "purpose", c.pending.Purpose, "error", err)
		return err
	}
	if c.state == ChallengeVerified {
		return nil
	}

	c.entry.Clear()
	c.lastErr = ""
	c.notice = ResendNotice
	c.noticeUntil = c.now().Add(c.noticeInterval)
	c.logger.Info(ctx, "verification code resent", "purpose", c.pending.Purpose)
	return nil
}

// Back closes the challenge without contacting the server. Answers to
// requests still in flight are discarded.
func (c *Challenge) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = ChallengeClosed
	c.entry.Clear()
	c.notice = ""
	c.lastErr = ""
}
