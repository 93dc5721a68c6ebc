package dto

import "io"

// ResumeFile is an uploaded résumé.
type ResumeFile struct {
	Reader   io.Reader
	FileName string
}

// RegisterRequest carries the registration form. Any role or status in the form is ignored.
type RegisterRequest struct {
	Email       string `form:"email" binding:"required"`
	Password    string `form:"password" binding:"required"`
	FirstName   string `form:"first_name" binding:"required,max=80"`
	LastName    string `form:"last_name" binding:"required,max=80"`
	DateOfBirth string `form:"date_of_birth" binding:"required"`
	Address     string `form:"address" binding:"required,max=255"`
}

// UpdateUserRequest holds the editable account and profile fields; nil leaves a field unchanged.
type UpdateUserRequest struct {
	FirstName   *string `form:"first_name" binding:"omitempty,max=80"`
	LastName    *string `form:"last_name" binding:"omitempty,max=80"`
	DateOfBirth *string `form:"date_of_birth" binding:"omitempty,max=10"`
	Address     *string `form:"address" binding:"omitempty,max=255"`

	Summary    *string `form:"summary"`
	Skills     *string `form:"skills"`
	Education  *string `form:"education"`
	Experience *string `form:"experience"`
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Status string `form:"status"`
	Role   string `form:"role"`
}

type ChangeRoleRequest struct {
	Role string `form:"role"`
}
