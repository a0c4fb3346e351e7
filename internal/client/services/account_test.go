package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signOutRecorder struct {
	Reasons []SignOutReason
}

func (r *signOutRecorder) fn(ctx context.Context, reason SignOutReason) {
	r.Reasons = append(r.Reasons, reason)
}

func newAccount(fc *fakeClient, store session.Store, sink ExportSink) (*accountService, *signOutRecorder) {
	rec := &signOutRecorder{}
	svc := NewAccountService(fc, store, sink, nil, rec.fn).(*accountService)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return svc, rec
}

func TestAccount_RequiresSession(t *testing.T) {
	fc := &fakeClient{}
	svc, rec := newAccount(fc, &memStore{}, &fakeSink{})
	ctx := context.Background()

	_, err := svc.Export(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)
	require.ErrorIs(t, svc.Deactivate(ctx, true), session.ErrNoSession)
	_, err = svc.Reactivate(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)
	require.ErrorIs(t, svc.Delete(ctx, true), session.ErrNoSession)
	require.ErrorIs(t, svc.Logout(ctx), session.ErrNoSession)
	require.ErrorIs(t, svc.RefreshProfile(ctx), session.ErrNoSession)

	assert.Zero(t, fc.ExportCalls+fc.StatusCalls+fc.DeleteCalls+fc.MeCalls)
	assert.Empty(t, rec.Reasons)
}

func TestDeactivate_SuccessTearsDown(t *testing.T) {
	fc := &fakeClient{}
	store := signedIn(true)
	svc, rec := newAccount(fc, store, &fakeSink{})

	require.NoError(t, svc.Deactivate(context.Background(), true))

	assert.Equal(t, "u1", fc.LastStatusUser)
	assert.False(t, fc.LastStatusActive)
	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, session.ErrNoSession)
	assert.Equal(t, []SignOutReason{SignOutDeactivated}, rec.Reasons)
}

func TestDeactivate_Unconfirmed(t *testing.T) {
	fc := &fakeClient{}
	store := signedIn(true)
	svc, rec := newAccount(fc, store, &fakeSink{})

	require.ErrorIs(t, svc.Deactivate(context.Background(), false), ErrNotConfirmed)
	assert.Zero(t, fc.StatusCalls)
	_, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.Reasons)
}

func TestDeactivate_FailureKeepsSession(t *testing.T) {
	fc := &fakeClient{StatusErr: &client.ServerError{StatusCode: 500, Message: "Failed to update account status"}}
	store := signedIn(true)
	svc, rec := newAccount(fc, store, &fakeSink{})

	err := svc.Deactivate(context.Background(), true)
	require.Error(t, err)
	assert.Equal(t, "Failed to update account status", UserMessage(err))

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.User.IsActive)
	assert.Zero(t, store.ClearCalls)
	assert.Empty(t, rec.Reasons)
}

func TestReactivate_UpdatesCachedProfile(t *testing.T) {
	fc := &fakeClient{}
	store := signedIn(false)
	svc, rec := newAccount(fc, store, &fakeSink{})

	u, err := svc.Reactivate(context.Background())
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.True(t, fc.LastStatusActive)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.User.IsActive)
	assert.Equal(t, "t1", got.Token)
	assert.Empty(t, rec.Reasons)
}

func TestReactivate_FailureKeepsProfile(t *testing.T) {
	fc := &fakeClient{StatusErr: &client.NetworkError{Err: errors.New("refused")}}
	store := signedIn(false)
	svc, _ := newAccount(fc, store, &fakeSink{})

	_, err := svc.Reactivate(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	got, _ := store.Get(context.Background())
	assert.False(t, got.User.IsActive)
}

func TestDelete(t *testing.T) {
	t.Run("unconfirmed", func(t *testing.T) {
		fc := &fakeClient{}
		svc, _ := newAccount(fc, signedIn(true), &fakeSink{})
		require.ErrorIs(t, svc.Delete(context.Background(), false), ErrNotConfirmed)
		assert.Zero(t, fc.DeleteCalls)
	})

	t.Run("failure then retry", func(t *testing.T) {
		fc := &fakeClient{DeleteErr: &client.ServerError{StatusCode: 500}}
		store := signedIn(true)
		svc, rec := newAccount(fc, store, &fakeSink{})

		err := svc.Delete(context.Background(), true)
		require.Error(t, err)
		assert.Equal(t, client.GenericMessage, UserMessage(err))
		_, err = store.Get(context.Background())
		require.NoError(t, err)

		fc.DeleteErr = nil
		require.NoError(t, svc.Delete(context.Background(), true))
		assert.Equal(t, 2, fc.DeleteCalls)
		assert.Equal(t, "u1", fc.LastDeleteUser)
		_, err = store.Get(context.Background())
		require.ErrorIs(t, err, session.ErrNoSession)
		assert.Equal(t, []SignOutReason{SignOutDeleted}, rec.Reasons)
	})

	t.Run("deactivated session may delete", func(t *testing.T) {
		fc := &fakeClient{}
		store := signedIn(false)
		svc, rec := newAccount(fc, store, &fakeSink{})
		require.NoError(t, svc.Delete(context.Background(), true))
		assert.Equal(t, []SignOutReason{SignOutDeleted}, rec.Reasons)
	})

	t.Run("clear failure still signs out", func(t *testing.T) {
		fc := &fakeClient{}
		store := signedIn(true)
		store.ClearErr = errors.New("disk io")
		svc, rec := newAccount(fc, store, &fakeSink{})
		require.NoError(t, svc.Delete(context.Background(), true))
		_, err := store.Get(context.Background())
		require.ErrorIs(t, err, session.ErrNoSession)
		assert.Equal(t, []SignOutReason{SignOutDeleted}, rec.Reasons)
	})
}

func TestLogout(t *testing.T) {
	fc := &fakeClient{}
	store := signedIn(true)
	svc, rec := newAccount(fc, store, &fakeSink{})

	require.NoError(t, svc.Logout(context.Background()))
	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, session.ErrNoSession)
	assert.Equal(t, []SignOutReason{SignOutLogout}, rec.Reasons)
	assert.Zero(t, fc.StatusCalls+fc.DeleteCalls, "logout is local only")
}

func TestExport_Success(t *testing.T) {
	fc := &fakeClient{ExportRet: []byte(`{"user":{"id":"u1"},"communities":[]}`)}
	sink := &fakeSink{Location: "/tmp/x.json"}
	svc, _ := newAccount(fc, signedIn(true), sink)

	loc, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.json", loc)
	assert.Equal(t, "u1", fc.LastExportUser)

	require.Len(t, sink.Saved, 1)
	a := sink.Saved[0]
	assert.Equal(t, "gamehub-export-u1-20260304-050607.json", a.Name)
	assert.Equal(t, "application/json", a.ContentType)
	assert.Equal(t, "{\n  \"user\": {\n    \"id\": \"u1\"\n  },\n  \"communities\": []\n}\n", string(a.Body))
}

func TestExport_NetworkErrorKeepsSession(t *testing.T) {
	fc := &fakeClient{ExportErr: &client.NetworkError{Err: errors.New("no route to host")}}
	store := signedIn(true)
	sink := &fakeSink{}
	svc, rec := newAccount(fc, store, sink)

	_, err := svc.Export(context.Background())
	require.Error(t, err)
	assert.Equal(t, client.GenericMessage, UserMessage(err))

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	assert.Empty(t, sink.Saved)
	assert.Empty(t, rec.Reasons)

	// retry works
	fc.ExportErr = nil
	fc.ExportRet = []byte(`{}`)
	_, err = svc.Export(context.Background())
	require.NoError(t, err)
	assert.Len(t, sink.Saved, 1)
}

func TestExport_SinkFailure(t *testing.T) {
	fc := &fakeClient{ExportRet: []byte(`{}`)}
	svc, _ := newAccount(fc, signedIn(true), &fakeSink{Err: errors.New("read-only fs")})

	_, err := svc.Export(context.Background())
	require.Error(t, err)
}

func TestExport_InvalidPayload(t *testing.T) {
	fc := &fakeClient{ExportRet: []byte(`{not json`)}
	svc, _ := newAccount(fc, signedIn(true), &fakeSink{})

	_, err := svc.Export(context.Background())
	require.Error(t, err)
}

func TestRefreshProfile(t *testing.T) {
	t.Run("backend reports inactive", func(t *testing.T) {
		fc := &fakeClient{MeRet: &models.UserProfile{ID: "u1", Email: "a@b.com", Username: "neo", IsActive: false}}
		store := signedIn(true)
		svc, rec := newAccount(fc, store, &fakeSink{})

		require.NoError(t, svc.RefreshProfile(context.Background()))
		_, err := store.Get(context.Background())
		require.ErrorIs(t, err, session.ErrNoSession)
		assert.Equal(t, []SignOutReason{SignOutDeactivated}, rec.Reasons)
	})

	t.Run("token revoked", func(t *testing.T) {
		fc := &fakeClient{MeErr: &client.ServerError{StatusCode: 401, Message: "Invalid token"}}
		store := signedIn(true)
		svc, rec := newAccount(fc, store, &fakeSink{})

		require.ErrorIs(t, svc.RefreshProfile(context.Background()), client.ErrUnauthorized)
		_, err := store.Get(context.Background())
		require.ErrorIs(t, err, session.ErrNoSession)
		assert.Equal(t, []SignOutReason{SignOutRevoked}, rec.Reasons)
	})

	t.Run("network error keeps session", func(t *testing.T) {
		fc := &fakeClient{MeErr: &client.NetworkError{Err: errors.New("offline")}}
		store := signedIn(true)
		svc, rec := newAccount(fc, store, &fakeSink{})

		require.Error(t, svc.RefreshProfile(context.Background()))
		_, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rec.Reasons)
	})

	t.Run("profile changes are cached", func(t *testing.T) {
		fc := &fakeClient{MeRet: &models.UserProfile{ID: "u1", Email: "a@b.com", Username: "trinity", IsActive: true}}
		store := signedIn(true)
		svc, rec := newAccount(fc, store, &fakeSink{})

		require.NoError(t, svc.RefreshProfile(context.Background()))
		got, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "trinity", got.User.Username)
		assert.Empty(t, rec.Reasons)
	})

	t.Run("deactivated session is kept", func(t *testing.T) {
		fc := &fakeClient{MeRet: &models.UserProfile{ID: "u1", Email: "a@b.com", Username: "neo", IsActive: false}}
		store := signedIn(false)
		svc, rec := newAccount(fc, store, &fakeSink{})

		require.NoError(t, svc.RefreshProfile(context.Background()))
		_, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rec.Reasons)
	})

	t.Run("answer for another user is ignored", func(t *testing.T) {
		fc := &fakeClient{MeRet: &models.UserProfile{ID: "u2", IsActive: false}}
		store := signedIn(true)
		svc, rec := newAccount(fc, store, &fakeSink{})

		require.ErrorIs(t, svc.RefreshProfile(context.Background()), ErrStaleResponse)
		_, err := store.Get(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rec.Reasons)
	})
}
