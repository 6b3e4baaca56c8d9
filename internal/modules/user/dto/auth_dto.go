package dto

import (
	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/policy"
	commonDto "anoa.com/jornalufc/pkg/dto"
)

// SignupRequest is the public registration payload. Admin accounts are never
// created through it.
type SignupRequest struct {
	Name          string      `json:"name" binding:"required,max=120"`
	Email         string      `json:"email" binding:"required,email,max=255,professor_email"`
	Password      string      `json:"password" binding:"required,min=6,max=72"`
	Role          policy.Role `json:"role" binding:"required,oneof=leitor bolsista professor"`
	OrientorEmail string      `json:"orientor_email" binding:"omitempty,email"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ScholarshipRequest struct {
	OrientorEmail string `json:"orientor_email" binding:"required,email"`
}

type RecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}

type PaginatedUserResponse struct {
	Data []*entity.User          `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
