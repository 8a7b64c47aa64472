package server

import "github.com/Leopold1975/churnguard/internal/churnguard/domain/models"

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type DeleteClientRequest struct {
	ID *models.Value `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}

type CreateClientResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type UpdateClientResponse struct {
	Message string          `json:"message"`
	ID      string          `json:"id"`
	Client  models.Customer `json:"client"`
}

type SuggestResponse struct {
	Suggestion string `json:"suggestion"`
}

type PredictResponse struct {
	Prediction int `json:"prediction"`
}

type BatchResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}
