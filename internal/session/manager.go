package session

import (
	"context"
	"fmt"
	"time"

	"rusunawa/internal/domain"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
)

// Manager is the single source of truth for tenant auth state. Handlers
// never cache a session themselves; expiry is enforced here on read so a
// stale token can not leak into a booking submission.
type Manager struct {
	store  domain.SessionStore
	ttl    time.Duration
	logger *zerolog.Logger
	now    func() time.Time
}

func NewManager(store domain.SessionStore, ttl time.Duration, logger *zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (m *Manager) Current(ctx context.Context, tenantID int64) (*models.Session, error) {
	session, err := m.store.GetSession(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(m.now()) {
		m.logger.Debug().Int64("tenant_id", tenantID).Msg("session expired, dropping")
		if err := m.store.ClearSession(ctx, tenantID); err != nil {
			m.logger.Warn().Err(err).Int64("tenant_id", tenantID).Msg("failed to clear expired session")
		}
		return nil, nil
	}
	return session, nil
}

func (m *Manager) Establish(ctx context.Context, session *models.Session) error {
	if session == nil || session.TenantID == 0 {
		return fmt.Errorf("session requires a tenant id")
	}
	now := m.now()
	if session.IssuedAt.IsZero() {
		session.IssuedAt = now
	}
	if session.ExpiresAt.IsZero() && m.ttl > 0 {
		session.ExpiresAt = now.Add(m.ttl)
	}
	if err := m.store.SetSession(ctx, session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	m.logger.Info().Int64("tenant_id", session.TenantID).Time("expires_at", session.ExpiresAt).Msg("session established")
	return nil
}

func (m *Manager) Drop(ctx context.Context, tenantID int64) error {
	if err := m.store.ClearSession(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.logger.Info().Int64("tenant_id", tenantID).Msg("session dropped")
	return nil
}
