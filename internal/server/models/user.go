package models

// User is the server-side account record. PasswordHash is a bcrypt hash and
// never leaves the repository/service layers.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Email        string
	PasswordHash string
}
