package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// ProductStats resumen del catálogo para el panel de stock.
type ProductStats struct {
	TotalProducts int
	TotalItems    int // suma de quantity
	LowStock      int // quantity <= min_quantity
}

// CategoryStock cantidad total en mano por categoría.
type CategoryStock struct {
	Category string
	Quantity int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica los campos descriptivos; no toca quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity es la única vía de escritura del saldo.
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	// IsReferenced indica si hay movimientos o líneas de expedición que apuntan al producto.
	IsReferenced(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Stats(ctx context.Context) (ProductStats, error)
	StockByCategory(ctx context.Context) ([]CategoryStock, error)
}
