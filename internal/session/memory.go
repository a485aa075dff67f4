package session

import (
	"context"
	"sync"
	"time"

	"rusunawa/internal/models"
)

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used when redis is down or not
// configured.
type MemoryStore struct {
	sessions sync.Map
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

func (m *MemoryStore) GetSession(ctx context.Context, tenantID int64) (*models.Session, error) {
	val, ok := m.sessions.Load(tenantID)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if m.ttl > 0 && time.Now().After(entry.expiresAt) {
		m.sessions.Delete(tenantID)
		return nil, nil
	}
	return entry.session, nil
}

func (m *MemoryStore) SetSession(ctx context.Context, session *models.Session) error {
	m.sessions.Store(session.TenantID, &memoryEntry{
		session:   session,
		expiresAt: time.Now().Add(m.ttl),
	})
	return nil
}

func (m *MemoryStore) ClearSession(ctx context.Context, tenantID int64) error {
	m.sessions.Delete(tenantID)
	return nil
}
