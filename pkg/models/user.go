package models

type User struct {
	ID           int    `json:"id" db:"id" goqu:"skipinsert"`
	Email        string `json:"email" db:"email"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password"`
	Mobile       string `json:"mobile" db:"mobile"`
}

type CreateUserRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	Mobile          string `json:"mobile"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
