// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/product"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	responder
	productService *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, alerts *notification.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		responder:      responder{alerts: alerts, logger: logger},
		productService: productService,
	}
}

// GetProducts handles GET /produtos
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	products, err := h.productService.List(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
	})
}

// CreateProduct handles POST /produtos
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.productService.Create(c.Request.Context(), req)
	if errors.Is(err, product.ErrInvalidPrice) {
		badRequest(c, err)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to create product")
		return
	}

	h.alerts.Success(middleware.GetSessionID(c), "Produto cadastrado com sucesso!")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Produto cadastrado com sucesso!",
		"data":    created,
	})
}

// UpdateProduct handles PUT /produtos/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req product.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.productService.Update(c.Request.Context(), c.Param("id"), req)
	if errors.Is(err, product.ErrInvalidPrice) {
		badRequest(c, err)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to update product")
		return
	}

	h.alerts.Success(middleware.GetSessionID(c), "Produto editado com sucesso!")
	c.JSON(http.StatusOK, gin.H{
		"message": "Produto editado com sucesso!",
		"data":    updated,
	})
}

// DeleteProduct handles DELETE /produtos/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produto removido",
	})
}
