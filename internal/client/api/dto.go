package api

import "github.com/avolkovs/sessionkeeper/internal/client/models"

// Transfer records for the REST API. Serialization concerns (JSON field
// names, optional fields) stay here; entities in the models package carry
// none of them.

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type userDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (t tokenResponse) toCredential() models.Credential {
	return models.Credential{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

func (d userDTO) toUser() *models.User {
	return &models.User{
		ID:          d.ID,
		Username:    d.Username,
		DisplayName: d.DisplayName,
		Email:       d.Email,
	}
}

func userToDTO(u *models.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}
