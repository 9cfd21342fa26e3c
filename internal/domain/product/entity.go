// internal/domain/product/entity.go
package product

import (
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/money"
)

// Product is a catalog entry as the backend stores it
type Product struct {
	ID          string       `json:"_id"`
	Name        string       `json:"nome"`
	Price       money.Amount `json:"preco"`
	Description string       `json:"descricao"`
	PhotoURL    string       `json:"urlfoto"`
	Category    string       `json:"categoria,omitempty"`
}

// CreateRequest is the body of POST /produtos
type CreateRequest struct {
	Name        string       `json:"nome" binding:"required"`
	Price       money.Amount `json:"preco"`
	Description string       `json:"descricao"`
	PhotoURL    string       `json:"urlfoto"`
	Category    string       `json:"categoria,omitempty"`
}

// UpdateRequest is the body of PUT /produtos/:id. An empty category is
// omitted from the wire so the backend removes it.
type UpdateRequest struct {
	Name     string       `json:"nome" binding:"required"`
	Price    money.Amount `json:"preco"`
	Category string       `json:"categoria,omitempty"`
}

// ListRequest filters the catalog after it is loaded
type ListRequest struct {
	Search   string `form:"search"`
	Category string `form:"categoria"`
}
