package handler

import (
	dErrors "sajag/pkg/domain-errors"
)

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "password is required")
	}
	return nil
}

// CreateUserRequest is the POST /api/auth/users body.
type CreateUserRequest struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	States     []string `json:"states"`
	PartnerIDs []string `json:"partnerIds"`
}

func (r *CreateUserRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "password is required")
	}
	if r.Role == "" {
		return dErrors.New(dErrors.CodeBadRequest, "role is required")
	}
	return nil
}
