package models

// CreateUserRequest is the body accepted by POST /api/v1/users.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty"`
}
