package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gamehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gamehub/internal/common"
)

// Preferences stores local user preferences under their own metadata keys.
// Session teardown never touches them.
type Preferences struct {
	repo metadata.Repository
}

func NewPreferences(db *sql.DB) *Preferences {
	return &Preferences{repo: metadata.NewSQLiteRepository(db)}
}

// NotificationsEnabled defaults to true when nothing was stored yet.
func (p *Preferences) NotificationsEnabled(ctx context.Context) (bool, error) {
	raw, err := p.repo.Get(ctx, common.MetaNotificationsEnabled)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return true, nil
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s", common.ErrorCorruptedData, common.MetaNotificationsEnabled)
	}
	return v, nil
}

func (p *Preferences) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	return p.repo.Set(ctx, common.MetaNotificationsEnabled, []byte(strconv.FormatBool(enabled)))
}
