package dto

import "github.com/BruksfildServices01/gym-manager/internal/models"

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
