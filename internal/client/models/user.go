package models

// User is the profile entity exposed to application code. It carries
// business-readable fields only; serialization concerns live in the DTOs
// of the api package.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
}
