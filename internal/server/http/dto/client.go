package dto

import (
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// ClientRequest describes a new client.
type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// ClientResponse describes a stored client.
type ClientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

// CollectionRequest describes a new collection.
type CollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CollectionResponse describes a collection with its progress counters.
type CollectionResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	TotalOrders     int       `json:"totalOrders"`
	CompletedOrders int       `json:"completedOrders"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewCollectionResponse(c model.Collection) CollectionResponse {
	return CollectionResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		TotalOrders:     c.TotalOrders,
		CompletedOrders: c.CompletedOrders,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
