package models

import "time"

// RefreshToken is a server-stored opaque token granting one rotation of the
// credential pair.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
