package session

import (
	"context"
	"sync/atomic"
	"time"

	"rusunawa/internal/domain"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStore prefers the primary store and falls back to the
// secondary when the primary errors, retrying the primary after a
// cooldown.
type FailoverStore struct {
	primary   domain.SessionStore
	fallback  domain.SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverStore) GetSession(ctx context.Context, tenantID int64) (*models.Session, error) {
	if !f.isDown.Load() {
		session, err := f.primary.GetSession(ctx, tenantID)
		if err == nil {
			return session, nil
		}
		f.markDown(err)
	}

	if f.shouldRetryPrimary() {
		session, err := f.primary.GetSession(ctx, tenantID)
		if err == nil {
			f.isDown.Store(false)
			return session, nil
		}
		f.lastCheck.Store(time.Now().UnixNano())
	}

	return f.fallback.GetSession(ctx, tenantID)
}

func (f *FailoverStore) SetSession(ctx context.Context, session *models.Session) error {
	if !f.isDown.Load() {
		err := f.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.SetSession(ctx, session)
}

func (f *FailoverStore) ClearSession(ctx context.Context, tenantID int64) error {
	if !f.isDown.Load() {
		err := f.primary.ClearSession(ctx, tenantID)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.ClearSession(ctx, tenantID)
}

func (f *FailoverStore) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary session store failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().UnixNano())
}

func (f *FailoverStore) shouldRetryPrimary() bool {
	return f.isDown.Load() && time.Since(time.Unix(0, f.lastCheck.Load())) > time.Minute
}
