// internal/domain/user/entity.go
package user

import (
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/money"
)

// User is an account as listed by the admin endpoint
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"tipo"`
}

// Cart is a customer cart as listed by the admin endpoint
type Cart struct {
	ID        string       `json:"_id"`
	UserID    string       `json:"usuarioId"`
	UserName  string       `json:"usuarioNome"`
	Items     []any        `json:"itens"`
	Total     money.Amount `json:"total"`
	UpdatedAt string       `json:"dataAtualizacao,omitempty"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

// LoginResponse is the backend answer to POST /login
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"tipo"`
	Name  string `json:"nome,omitempty"`
}

// Profile is what the storefront exposes about the logged-in user
type Profile struct {
	Name    string `json:"nome"`
	Role    string `json:"tipo"`
	IsAdmin bool   `json:"isAdmin"`
}

// Dashboard is the admin overview
type Dashboard struct {
	Users []User `json:"usuarios"`
	Carts []Cart `json:"carrinhos"`
}

// ExportRequest selects the format of a user export
type ExportRequest struct {
	Format string `form:"format,default=csv"`
	Role   string `form:"tipo"`
}
