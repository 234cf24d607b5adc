package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/usecase"
)

// InvoiceHandler manages invoice endpoints.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// Preview handles POST /api/invoices/preview.
func (h *InvoiceHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !bindJSON(c, &req) {
		return
	}
	breakdown, err := h.facade.PreviewInvoice(dto.LineItems(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaxBreakdownResponse(breakdown))
}

// Create handles POST /api/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.facade.CreateInvoice(c.Request.Context(), CurrentAccountID(c), usecase.CreateInvoiceInput{
		ClientID: req.ClientID,
		OrderID:  req.OrderID,
		Items:    dto.LineItems(req.Items),
		DueDate:  req.DueDate,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewInvoiceResponse(*invoice))
}

// Get handles GET /api/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	invoice, err := h.facade.Invoice(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInvoiceResponse(*invoice))
}

// List handles GET /api/invoices. Supports clientId, orderId and status filters.
func (h *InvoiceHandler) List(c *gin.Context) {
	var (
		filter model.InvoiceFilter
		err    error
	)
	if filter.ClientID, err = queryID(c, "clientId"); err != nil {
		writeError(c, err)
		return
	}
	if filter.OrderID, err = queryID(c, "orderId"); err != nil {
		writeError(c, err)
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseInvoiceStatus(raw)
		if !ok {
			writeError(c, domainErrors.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}

	invoices, err := h.facade.Invoices(c.Request.Context(), CurrentAccountID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		resp = append(resp, dto.NewInvoiceResponse(invoice))
	}
	c.JSON(http.StatusOK, resp)
}

// Update handles PATCH /api/invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	in := usecase.UpdateInvoiceInput{
		DueDate:         req.DueDate,
		Notes:           req.Notes,
		ExpectedVersion: req.ExpectedVersion,
	}
	if req.Status != nil {
		status, ok := model.ParseInvoiceStatus(*req.Status)
		if !ok {
			writeError(c, domainErrors.ErrInvalidStatus)
			return
		}
		in.Status = &status
	}
	if req.Items != nil {
		items := dto.LineItems(*req.Items)
		in.Items = &items
	}

	invoice, err := h.facade.UpdateInvoice(c.Request.Context(), CurrentAccountID(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInvoiceResponse(*invoice))
}

// Delete handles DELETE /api/invoices/:id. Only drafts can be deleted.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteInvoice(c.Request.Context(), CurrentAccountID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reconcile handles POST /api/invoices/:id/reconcile.
func (h *InvoiceHandler) Reconcile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.facade.ReconcileInvoice(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReconciliationResponse(*result))
}
