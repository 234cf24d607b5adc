package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/usecase"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Record handles POST /api/payments.
func (h *PaymentHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.facade.RecordPayment(c.Request.Context(), CurrentAccountID(c), usecase.RecordPaymentInput{
		ClientID:      req.ClientID,
		OrderID:       req.OrderID,
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		Method:        model.PaymentMethod(req.Method),
		Status:        model.PaymentStatus(req.Status),
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
		PaidAt:        req.PaidAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPaymentResponse(*payment))
}

// Confirm handles POST /api/payments/:id/confirm with a gateway result.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.facade.ConfirmPayment(c.Request.Context(), CurrentAccountID(c), id, usecase.ConfirmPaymentInput{
		Status:        model.PaymentStatus(req.Status),
		TransactionID: req.TransactionID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaymentResponse(*payment))
}

// Get handles GET /api/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payment, err := h.facade.Payment(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaymentResponse(*payment))
}

// ListByOrder handles GET /api/orders/:id/payments.
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payments, err := h.facade.OrderPayments(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, dto.NewPaymentResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}
