package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gamehub/internal/common"
	"github.com/dmitrijs2005/gamehub/internal/dbx"
	"github.com/dmitrijs2005/gamehub/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SQLiteStore keeps the session in memory and mirrors it to the metadata table.
// The cached record is swapped only after the backing transaction commits.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time

	mu  sync.RWMutex
	cur *models.Session
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore returns an empty store bound to db. Call Load to restore a
// previously persisted session.
func NewSQLiteStore(db *sql.DB, logger logging.Logger) *SQLiteStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SQLiteStore{db: db, logger: logger, now: time.Now}
}

func (s *SQLiteStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Load restores the persisted session. A half-written record or an expired
// token is wiped so the client starts signed out.
func (s *SQLiteStore) Load(ctx context.Context) error {
	vals, err := s.repo(s.db).GetMany(ctx, common.MetaSessionUser, common.MetaSessionToken)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	rawUser, hasUser := vals[common.MetaSessionUser]
	rawToken, hasToken := vals[common.MetaSessionToken]

	if !hasUser && !hasToken {
		return nil
	}

	sess, reason := s.restore(rawUser, rawToken)
	if sess == nil {
		s.logger.Warn(ctx, "discarding stored session", "reason", reason)
		return s.Clear(ctx)
	}

	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()

	s.logger.Info(ctx, "session restored", "user_id", sess.User.ID)
	return nil
}

func (s *SQLiteStore) restore(rawUser, rawToken []byte) (*models.Session, string) {
	if len(rawUser) == 0 || len(rawToken) == 0 {
		return nil, "incomplete record"
	}

	var u models.UserProfile
	if err := json.Unmarshal(rawUser, &u); err != nil {
		return nil, "corrupted user record"
	}

	sess := &models.Session{User: u, Token: string(rawToken)}
	if !sess.Valid() {
		return nil, "incomplete record"
	}
	if tokenExpired(sess.Token, s.now()) {
		return nil, "token expired"
	}
	return sess, ""
}

// tokenExpired inspects the exp claim without verifying the signature; the
// backend stays the authority. Opaque tokens are assumed valid.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func (s *SQLiteStore) Get(ctx context.Context) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, ErrNoSession
	}
	return s.cur.Clone(), nil
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return "", ErrNoSession
	}
	return s.cur.Token, nil
}

func (s *SQLiteStore) Set(ctx context.Context, sess *models.Session) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}
	next := sess.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.cur = next
	return nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return ErrNoSession
	}
	if u.ID != s.cur.User.ID {
		return fmt.Errorf("update user: id %q does not match session user", u.ID)
	}

	next := s.cur.Clone()
	next.User = u
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.cur = next
	return nil
}

func (s *SQLiteStore) persist(ctx context.Context, sess *models.Session) error {
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.MetaSessionUser, rawUser); err != nil {
			return err
		}
		return repo.Set(ctx, common.MetaSessionToken, []byte(sess.Token))
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear removes only the session keys; preferences survive sign-out.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo(s.db).Delete(ctx, common.MetaSessionUser, common.MetaSessionToken)
	// the cached record goes even if the DB write failed
	s.cur = nil
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// IsNoSession reports whether err means no user is signed in.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}
