package models

// Credential is an access/refresh token pair representing an authenticated
// session. It is persisted as a single JSON blob in the local store; the
// presence of that blob is what makes the client "authorized".
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IsZero reports whether the credential carries no tokens.
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}
