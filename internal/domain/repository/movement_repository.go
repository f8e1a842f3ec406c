package repository

import (
	"context"
	"time"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos (más recientes primero).
type MovementFilter struct {
	ProductID string
	Limit     int
}

// DailyMovementTotal unidades de entrada y salida de un día.
type DailyMovementTotal struct {
	Day     time.Time // medianoche UTC
	Entries int
	Exits   int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// CountByType cuenta movimientos por tipo creados en [since, now].
	CountByType(ctx context.Context, since time.Time) (map[string]int, error)
	Count(ctx context.Context) (int, error)
	// DailyTotals suma cantidades de entrada/saida por día desde from (inclusive).
	DailyTotals(ctx context.Context, from time.Time) ([]DailyMovementTotal, error)
}
