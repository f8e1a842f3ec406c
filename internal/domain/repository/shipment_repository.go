package repository

import (
	"context"
	"time"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// ShipmentRepository define el puerto de persistencia para Shipment y sus líneas.
// Las lecturas de expedición incluyen Items.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	// GetForUpdate bloquea la fila de la expedición (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Shipment, error)
	List(ctx context.Context) ([]*entity.Shipment, error)
	UpdateStatus(ctx context.Context, id, status string, shippedAt *time.Time) error
	// Delete borra la expedición y sus líneas.
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)

	AddItem(ctx context.Context, item *entity.ShipmentItem) error
	// GetItem devuelve (nil, nil) si no existe.
	GetItem(ctx context.Context, itemID string) (*entity.ShipmentItem, error)
	DeleteItem(ctx context.Context, itemID string) error
}
