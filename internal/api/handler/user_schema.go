package handler

import "time"

// errorResponse documents the standard error envelope in swagger output.
// The actual rendering happens in the central HTTP error handler.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Username  string `json:"username"   validate:"required"`
	Password  string `json:"password"   validate:"required,min=8"`
	Email     string `json:"email"      validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"omitempty"`
	LastName  string `json:"last_name"  validate:"omitempty"`
}

type createUserRequest struct {
	Username  string `json:"username"   validate:"required"`
	Password  string `json:"password"   validate:"required,min=8"`
	Email     string `json:"email"      validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"omitempty"`
	LastName  string `json:"last_name"  validate:"omitempty"`
	Role      string `json:"role"       validate:"omitempty,oneof=admin user friend"`
}

// updateUserRequest is a partial update; absent fields are left untouched.
type updateUserRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"   validate:"omitempty,min=8"`
}

type activateRequest struct {
	// Active defaults to true when the body is empty.
	Active *bool `json:"active"`
}

// --- Response types ---

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Role       string    `json:"role"`
	CreatedBy  string    `json:"created_by,omitempty"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

type registerResponse struct {
	Message string                `json:"message"`
	User    publicProfileResponse `json:"user"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type analyticsResponse struct {
	TotalUsers   int64 `json:"total_users"`
	TotalFriends int64 `json:"total_friends"`
}

type statusResponse struct {
	Status string `json:"status"`
}
