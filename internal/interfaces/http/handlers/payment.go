// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/checkout"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/payment"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

// PaymentHandler drives the payment page
type PaymentHandler struct {
	responder
	flow *checkout.Flow
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(flow *checkout.Flow, alerts *notification.Service, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		responder: responder{alerts: alerts, logger: logger},
		flow:      flow,
	}
}

// StartPayment handles POST /pagamento. Failures of the attempt are part
// of the returned snapshot, not HTTP errors.
func (h *PaymentHandler) StartPayment(c *gin.Context) {
	snapshot, err := h.flow.Start(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, "Failed to start payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": snapshot,
	})
}

// GetPayment handles GET /pagamento
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	snapshot, err := h.flow.Snapshot(middleware.GetSessionID(c))
	if err != nil {
		h.paymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": snapshot,
	})
}

// SelectMethod handles PUT /pagamento/metodo
func (h *PaymentHandler) SelectMethod(c *gin.Context) {
	var req checkout.SelectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	snapshot, err := h.flow.SelectMethod(middleware.GetSessionID(c), req.PaymentMethod)
	if err != nil {
		h.paymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": snapshot,
	})
}

// ConfirmPayment handles POST /pagamento/confirmar
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req checkout.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	snapshot, err := h.flow.Submit(c.Request.Context(), middleware.GetSessionID(c), req.PaymentMethodID)
	if err != nil {
		h.paymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": snapshot,
	})
}

// PaymentSuccess handles GET /pagamento-success
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Pagamento realizado com sucesso!",
		"home":    "/",
	})
}

func (h *PaymentHandler) paymentError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, checkout.ErrNoAttempt):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrSubmitDisabled), errors.Is(err, checkout.ErrWidgetNotMounted):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrUnknownMethod), errors.Is(err, payment.ErrNoPaymentMethod):
		status = http.StatusBadRequest
	default:
		h.fail(c, err, "Payment request failed")
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
