package dto

import "time"

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=entrada saida ajuste"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes" validate:"omitempty,max=1000"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	ProductName      string    `json:"product_name,omitempty"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previous_quantity"`
	UserID           string    `json:"user_id"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementStatsResponse contadores del día y total histórico.
type MovementStatsResponse struct {
	EntriesToday     int `json:"entries_today"`
	ExitsToday       int `json:"exits_today"`
	AdjustmentsToday int `json:"adjustments_today"`
	TotalMovements   int `json:"total_movements"`
}
