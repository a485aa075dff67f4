package models

import "time"

type Tenant struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	TenantType string    `json:"tenant_type"`
	Gender     string    `json:"gender,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Session is the single source of truth for a logged-in tenant: the
// opaque backend token plus the profile snapshot it was issued for.
// Token contents are never inspected here; the backend owns issuance
// and verification.
type Session struct {
	TenantID  int64     `json:"tenant_id"`
	Token     string    `json:"token"`
	Profile   Tenant    `json:"profile"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given
// instant. Zero ExpiresAt means the backend did not report one.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}
