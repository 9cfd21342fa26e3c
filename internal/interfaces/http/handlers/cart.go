// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/cart"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	responder
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, alerts *notification.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		responder:   responder{alerts: alerts, logger: logger},
		cartService: cartService,
	}
}

// GetCart handles GET /carrinho
func (h *CartHandler) GetCart(c *gin.Context) {
	current, err := h.cartService.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": current.Summarize(),
	})
}

// AddToCart handles POST /carrinho/itens
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sid := middleware.GetSessionID(c)
	updated, err := h.cartService.AddItem(c.Request.Context(), sid, req)
	if err != nil {
		h.fail(c, err, "Failed to add item")
		return
	}

	h.alerts.Success(sid, "Produto adicionado com sucesso!")
	c.JSON(http.StatusOK, gin.H{
		"message": "Produto adicionado com sucesso!",
		"data":    updated.Summarize(),
	})
}

// UpdateQuantity handles PATCH /carrinho/quantidade
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cart.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.fail(c, err, "Failed to update quantity")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": updated.Summarize(),
	})
}

// RemoveItem handles DELETE /carrinho/item
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req cart.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.fail(c, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": updated.Summarize(),
	})
}

// ClearCart handles DELETE /carrinho
func (h *CartHandler) ClearCart(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	if err := h.cartService.Clear(c.Request.Context(), sid); err != nil {
		h.fail(c, err, "Failed to clear cart")
		return
	}

	h.alerts.Info(sid, "Carrinho esvaziado")
	c.JSON(http.StatusOK, gin.H{
		"message": "Carrinho esvaziado",
	})
}
