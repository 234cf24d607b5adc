package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentAccountID(c), usecase.CreateOrderInput{
		ClientID:     req.ClientID,
		GarmentType:  req.GarmentType,
		Description:  req.Description,
		Quantity:     req.Quantity,
		LaborCost:    req.LaborCost,
		MaterialCost: req.MaterialCost,
		Deadline:     req.Deadline,
		CollectionID: req.CollectionID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// List handles GET /api/orders. Supports clientId, collectionId and status filters.
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := orderFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), CurrentAccountID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.NewOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Update handles PATCH /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	in := usecase.UpdateOrderInput{
		GarmentType:     req.GarmentType,
		Description:     req.Description,
		Quantity:        req.Quantity,
		LaborCost:       req.LaborCost,
		MaterialCost:    req.MaterialCost.Value,
		Deadline:        req.Deadline,
		CollectionID:    req.CollectionID,
		ExpectedVersion: req.ExpectedVersion,
	}
	in.ClearMaterialCost = req.MaterialCost.Cleared()
	if req.Status != nil {
		status, ok := model.ParseOrderStatus(*req.Status)
		if !ok {
			writeError(c, domainErrors.ErrInvalidStatus)
			return
		}
		in.Status = &status
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), CurrentAccountID(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteOrder(c.Request.Context(), CurrentAccountID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Balance handles GET /api/orders/:id/balance.
func (h *OrderHandler) Balance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	balance, err := h.facade.OrderBalance(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceResponse(balance))
}

// Reconcile handles POST /api/orders/:id/reconcile.
func (h *OrderHandler) Reconcile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.facade.ReconcileOrder(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReconciliationResponse(*result))
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entries, err := h.facade.OrderHistory(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.NewHistoryEntry(e))
	}
	c.JSON(http.StatusOK, resp)
}

func orderFilter(c *gin.Context) (model.OrderFilter, error) {
	var (
		filter model.OrderFilter
		err    error
	)
	if filter.ClientID, err = queryID(c, "clientId"); err != nil {
		return filter, err
	}
	if filter.CollectionID, err = queryID(c, "collectionId"); err != nil {
		return filter, err
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseOrderStatus(raw)
		if !ok {
			return filter, domainErrors.ErrInvalidStatus
		}
		filter.Status = &status
	}
	return filter, nil
}
