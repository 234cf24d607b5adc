package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/server/http/dto"
	"github.com/polkiloo/atelier/internal/usecase"
)

// ClientHandler manages client and collection endpoints.
type ClientHandler struct {
	facade ClientFacade
}

// NewClientHandler constructs ClientHandler.
func NewClientHandler(facade ClientFacade) *ClientHandler {
	return &ClientHandler{facade: facade}
}

// Create handles POST /api/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.facade.CreateClient(c.Request.Context(), CurrentAccountID(c), usecase.ClientInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewClientResponse(*client))
}

// Get handles GET /api/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := h.facade.Client(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewClientResponse(*client))
}

// List handles GET /api/clients.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.facade.Clients(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.ClientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, dto.NewClientResponse(client))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCollection handles POST /api/collections.
func (h *ClientHandler) CreateCollection(c *gin.Context) {
	var req dto.CollectionRequest
	if !bindJSON(c, &req) {
		return
	}
	collection, err := h.facade.CreateCollection(c.Request.Context(), CurrentAccountID(c), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCollectionResponse(*collection))
}

// GetCollection handles GET /api/collections/:id.
func (h *ClientHandler) GetCollection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	collection, err := h.facade.Collection(c.Request.Context(), CurrentAccountID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCollectionResponse(*collection))
}

// ListCollections handles GET /api/collections.
func (h *ClientHandler) ListCollections(c *gin.Context) {
	collections, err := h.facade.Collections(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.CollectionResponse, 0, len(collections))
	for _, collection := range collections {
		resp = append(resp, dto.NewCollectionResponse(collection))
	}
	c.JSON(http.StatusOK, resp)
}
