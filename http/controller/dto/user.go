package dto

type UpdateUserRequestDTO struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=ADMIN EDITOR VIEWER"`
	IsActive *bool   `json:"is_active"`
}
