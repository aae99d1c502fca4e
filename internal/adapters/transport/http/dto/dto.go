// Package dto pins the wire shapes of the HTTP surface. Bodies are fixed-shape
// records rather than open maps so the contract stays testable.
package dto

type SignupDTO struct {
	FullName string `json:"full_name" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required"`
}

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserSummary struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

type SignupResponse struct {
	Detail string      `json:"detail"`
	User   UserSummary `json:"user"`
}

type TokenPairResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type IndexResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	Detail string `json:"detail"`
}
