package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
)

// ---- fake client ----

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	mu sync.Mutex

	// behaviour/results
	SignupErr error
	LoginErr  error
	// LoginGate, when set, blocks Login until it is closed.
	LoginGate chan struct{}

	VerifyRet *client.VerifyResult
	VerifyErr error
	// VerifyGate, when set, blocks VerifyOTP until it is closed.
	VerifyGate chan struct{}

	ResendErr  error
	ResendGate chan struct{}

	StatusRet *client.AccountStatus
	StatusErr error

	DeleteErr error

	ExportRet json.RawMessage
	ExportErr error

	MeRet *models.UserProfile
	MeErr error

	// call counters and arguments
	SignupCalls int
	LoginCalls  int
	VerifyCalls int
	ResendCalls int
	StatusCalls int
	DeleteCalls int
	ExportCalls int
	MeCalls     int

	LastSignup        client.SignupRequest
	LastLoginEmail    string
	LastLoginPassword string
	LastVerifyEmail   string
	LastVerifyCode    string
	LastVerifyPurpose models.Purpose
	LastResendEmail   string
	LastResendPurpose models.Purpose
	LastStatusUser    string
	LastStatusActive  bool
	LastDeleteUser    string
	LastExportUser    string

	// verifyStarted is signalled when VerifyOTP has been entered.
	verifyStarted chan struct{}
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Signup(ctx context.Context, req client.SignupRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignupCalls++
	f.LastSignup = req
	return f.SignupErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) error {
	f.mu.Lock()
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	gate := f.LoginGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LoginErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, code string, purpose models.Purpose) (*client.VerifyResult, error) {
	f.mu.Lock()
	f.VerifyCalls++
	f.LastVerifyEmail = email
	f.LastVerifyCode = code
	f.LastVerifyPurpose = purpose
	gate, started := f.VerifyGate, f.verifyStarted
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) ResendOTP(ctx context.Context, email string, purpose models.Purpose) error {
	f.mu.Lock()
	f.ResendCalls++
	f.LastResendEmail = email
	f.LastResendPurpose = purpose
	gate := f.ResendGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ResendErr
}

func (f *fakeClient) SetAccountStatus(ctx context.Context, userID string, active bool) (*client.AccountStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCalls++
	f.LastStatusUser = userID
	f.LastStatusActive = active
	if f.StatusErr != nil {
		return nil, f.StatusErr
	}
	if f.StatusRet != nil {
		return f.StatusRet, nil
	}
	return &client.AccountStatus{UserID: userID, IsActive: active}, nil
}

func (f *fakeClient) DeleteAccount(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.LastDeleteUser = userID
	return f.DeleteErr
}

func (f *fakeClient) ExportData(ctx context.Context, userID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ExportCalls++
	f.LastExportUser = userID
	return f.ExportRet, f.ExportErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls++
	return f.MeRet, f.MeErr
}

// ---- fake store ----

// memStore is an in-memory session.Store that records every write.
type memStore struct {
	mu  sync.Mutex
	cur *models.Session

	SetErr     error
	ClearErr   error
	SetCalls   int
	ClearCalls int
}

var _ session.Store = (*memStore)(nil)

func (m *memStore) Get(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return nil, session.ErrNoSession
	}
	return m.cur.Clone(), nil
}

func (m *memStore) Set(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	if !s.Valid() {
		return session.ErrInvalidSession
	}
	m.cur = s.Clone()
	return nil
}

func (m *memStore) UpdateUser(ctx context.Context, u models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return session.ErrNoSession
	}
	m.cur.User = u
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	m.cur = nil
	return m.ClearErr
}

func (m *memStore) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return "", session.ErrNoSession
	}
	return m.cur.Token, nil
}

func signedIn(active bool) *memStore {
	return &memStore{cur: &models.Session{
		User:  models.UserProfile{ID: "u1", Email: "a@b.com", Username: "neo", IsActive: active},
		Token: "t1",
	}}
}

// ---- fake sink ----

type fakeSink struct {
	Err      error
	Saved    []*models.ExportArtifact
	Location string
}

func (s *fakeSink) Save(ctx context.Context, a *models.ExportArtifact) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.Saved = append(s.Saved, a)
	return s.Location, nil
}
