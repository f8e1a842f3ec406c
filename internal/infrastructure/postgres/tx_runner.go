package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/shipping"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and shipping.TxRunner.
var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ shipping.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run ejecuta fn con repos de movimientos y productos atados a la tx; Commit si fn no falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewProductRepository(tx))
	})
}

// RunShipping ejecuta fn con repos de expediciones y productos (despacho, líneas, borrado).
func (r *TxRunner) RunShipping(ctx context.Context, fn func(
	shipmentRepo repository.ShipmentRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewShipmentRepository(tx), NewProductRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
