package models

import "time"

// Session stores per-browser session state (for login, logout, dedupe).
// Anonymous visitors get a row too, so likes/views can be deduplicated
// before anyone logs in. Login rotates to a brand-new row.
type Session struct {
	ID        string `gorm:"primaryKey;size:64"` // UUID from cookie
	UserID    *uint  `gorm:"index"`              // nil while anonymous
	Username  string `gorm:"size:100"`
	Email     string `gorm:"size:120"`
	LoggedOut bool   `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// Authenticated reports whether the session may pass the login gate.
// A logged-out session keeps its identity fields but is treated as anonymous.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != nil && !s.LoggedOut
}
