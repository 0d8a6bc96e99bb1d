package domain

import "time"

// Session is an authenticated login as carried by a signed session token.
type Session struct {
	ID        string
	UserID    string
	Username  string
	Role      Role
	ExpiresAt time.Time
}
