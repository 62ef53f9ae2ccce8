package handler

import "github.com/encore-live/backstage-api/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type accountSummary struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	TokenType    string          `json:"token_type"`
	Account      *accountSummary `json:"account,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Admin account operations ---

type setEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type modifyAccountRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
