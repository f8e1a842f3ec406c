package entity

import "time"

// Estados de una expedición.
const (
	ShipmentStatusPending    = "pending"
	ShipmentStatusInProgress = "in_progress"
	ShipmentStatusShipped    = "shipped"
	ShipmentStatusCancelled  = "cancelled"
)

// IsValidShipmentStatus reporta si s pertenece a la enumeración cerrada de estados.
func IsValidShipmentStatus(s string) bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusInProgress, ShipmentStatusShipped, ShipmentStatusCancelled:
		return true
	}
	return false
}

// Shipment es un pedido de salida que agrupa líneas; solo descuenta stock al pasar a shipped.
type Shipment struct {
	ID              string
	OrderNumber     string // único
	CustomerName    string
	CustomerAddress string
	Status          string
	UserID          string
	Notes           string
	CreatedAt       time.Time
	ShippedAt       *time.Time
	Items           []ShipmentItem
}

// IsShipped indica si ya se descontó el stock de la expedición.
func (s *Shipment) IsShipped() bool {
	return s.ShippedAt != nil
}

// ShipmentItem es una línea de la expedición.
type ShipmentItem struct {
	ID          string
	ShipmentID  string
	ProductID   string
	ProductName string // solo lectura, poblado en consultas
	Quantity    int
}
