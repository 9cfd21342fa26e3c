// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/money"
)

// UnknownProductName is shown for items whose backend record carries no name
const UnknownProductName = "Produto desconhecido"

// Item is one line of the cart as the backend sends it
type Item struct {
	ProductID   string       `json:"produtoId"`
	Name        string       `json:"nome,omitempty"`
	ProductName string       `json:"nomeProduto,omitempty"`
	UnitPrice   money.Amount `json:"precoUnitario"`
	Quantity    money.Amount `json:"quantidade"`
	Photo       string       `json:"foto,omitempty"`
	Image       string       `json:"imagem,omitempty"`
	PhotoURL    string       `json:"foto_url,omitempty"`
}

// DisplayName returns the first non-empty name alias
func (i Item) DisplayName() string {
	for _, n := range []string{i.Name, i.ProductName} {
		if n != "" {
			return n
		}
	}
	return UnknownProductName
}

// PhotoURLValue returns the first non-empty photo alias, or ""
func (i Item) PhotoURLValue() string {
	for _, p := range []string{i.Photo, i.Image, i.PhotoURL} {
		if p != "" {
			return p
		}
	}
	return ""
}

// Subtotal is unit price times quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(i.Quantity.Decimal)
}

// Cart is the backend-owned cart of the current session
type Cart struct {
	Items []Item        `json:"itens"`
	Total *money.Amount `json:"total,omitempty"`
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ComputedTotal sums unit price times quantity over all items
func (c *Cart) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// EffectiveTotal is the backend-supplied total unless it is missing or zero,
// in which case the computed one. A negative supplied total is kept.
func (c *Cart) EffectiveTotal() decimal.Decimal {
	if c != nil && c.Total != nil && !c.Total.IsZero() {
		return c.Total.Decimal
	}
	return c.ComputedTotal()
}

// LineView is the display projection of an item
type LineView struct {
	ProductID string          `json:"produtoId"`
	Name      string          `json:"nome"`
	PhotoURL  string          `json:"foto,omitempty"`
	Quantity  decimal.Decimal `json:"quantidade"`
	UnitPrice decimal.Decimal `json:"precoUnitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summary is the display projection of a cart
type Summary struct {
	Items []LineView      `json:"itens"`
	Total decimal.Decimal `json:"total"`
}

// Summarize builds the display projection with resolved aliases and totals
func (c *Cart) Summarize() Summary {
	s := Summary{Items: []LineView{}, Total: c.EffectiveTotal()}
	if c == nil {
		return s
	}
	for _, item := range c.Items {
		s.Items = append(s.Items, LineView{
			ProductID: item.ProductID,
			Name:      item.DisplayName(),
			PhotoURL:  item.PhotoURLValue(),
			Quantity:  item.Quantity.Decimal,
			UnitPrice: item.UnitPrice.Decimal,
			Subtotal:  item.Subtotal(),
		})
	}
	return s
}

// AddItemRequest is the body of POST /adicionarItem
type AddItemRequest struct {
	ProductID string `json:"produtoId" binding:"required"`
	Quantity  int    `json:"quantidade"`
}

// UpdateQuantityRequest is the body of PATCH /carrinho/quantidade
type UpdateQuantityRequest struct {
	ProductID string `json:"produtoId" binding:"required"`
	Quantity  int    `json:"quantidade" binding:"min=0"`
}

// RemoveItemRequest is the body of DELETE /carrinho/item
type RemoveItemRequest struct {
	ProductID string `json:"produtoId" binding:"required"`
}
