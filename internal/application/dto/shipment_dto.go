package dto

import "time"

// CreateShipmentRequest body para POST /api/shipments.
type CreateShipmentRequest struct {
	OrderNumber     string `json:"order_number" validate:"required,max=50"`
	CustomerName    string `json:"customer_name" validate:"required,max=200"`
	CustomerAddress string `json:"customer_address" validate:"required"`
	Notes           string `json:"notes"`
}

// AddShipmentItemRequest body para POST /api/shipments/:id/items.
type AddShipmentItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateShipmentStatusRequest body para PATCH /api/shipments/:id/status.
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress shipped cancelled"`
}

// ShipmentItemResponse línea de una expedición.
type ShipmentItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

// ShipmentResponse salida de una expedición con sus líneas.
type ShipmentResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	CustomerName    string                 `json:"customer_name"`
	CustomerAddress string                 `json:"customer_address"`
	Status          string                 `json:"status"`
	UserID          string                 `json:"user_id"`
	Notes           string                 `json:"notes"`
	CreatedAt       time.Time              `json:"created_at"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	Items           []ShipmentItemResponse `json:"items"`
}

// ShipmentStatsResponse contadores por estado.
type ShipmentStatsResponse struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Shipped    int `json:"shipped"`
	Total      int `json:"total"`
}
