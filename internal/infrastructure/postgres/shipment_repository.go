package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `id, order_number, customer_name, customer_address, status, user_id, notes, created_at, shipped_at`

// ShipmentRepo persistencia de expediciones y sus líneas.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el repo. Pasar pool o tx.
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	err := row.Scan(&s.ID, &s.OrderNumber, &s.CustomerName, &s.CustomerAddress, &s.Status,
		&s.UserID, &s.Notes, &s.CreatedAt, &s.ShippedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera de la expedición.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipments (`+shipmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.OrderNumber, s.CustomerName, s.CustomerAddress, s.Status, s.UserID, s.Notes, s.CreatedAt, s.ShippedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) getOne(ctx context.Context, query string, arg any) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID obtiene la expedición con sus líneas.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la cabecera.
func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

// GetByOrderNumber busca por número de pedido.
func (r *ShipmentRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE order_number = $1`, orderNumber)
}

// List devuelve todas las expediciones con sus líneas, más recientes primero.
func (r *ShipmentRepo) List(ctx context.Context) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	var list []*entity.Shipment
	byID := map[string]*entity.Shipment{}
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, s)
		byID[s.ID] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	itemRows, err := r.q.Query(ctx, itemSelect+` ORDER BY i.shipment_id, i.seq`)
	if err != nil {
		return nil, fmt.Errorf("list shipment items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment item: %w", err)
		}
		if s, ok := byID[it.ShipmentID]; ok {
			s.Items = append(s.Items, *it)
		}
	}
	return list, itemRows.Err()
}

// UpdateStatus cambia el estado y shipped_at.
func (r *ShipmentRepo) UpdateStatus(ctx context.Context, id, status string, shippedAt *time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shipments SET status = $2, shipped_at = $3 WHERE id = $1`, id, status, shippedAt)
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la expedición; las líneas caen por ON DELETE CASCADE.
func (r *ShipmentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus cuenta expediciones por estado.
func (r *ShipmentRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM shipments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count shipments: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan shipment count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

const itemSelect = `
	SELECT i.id, i.shipment_id, i.product_id, COALESCE(p.name, ''), i.quantity
	FROM shipment_items i LEFT JOIN products p ON p.id = i.product_id`

func scanItem(row pgx.Row) (*entity.ShipmentItem, error) {
	var it entity.ShipmentItem
	if err := row.Scan(&it.ID, &it.ShipmentID, &it.ProductID, &it.ProductName, &it.Quantity); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ShipmentRepo) items(ctx context.Context, shipmentID string) ([]entity.ShipmentItem, error) {
	rows, err := r.q.Query(ctx, itemSelect+` WHERE i.shipment_id = $1 ORDER BY i.seq`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment items: %w", err)
	}
	defer rows.Close()
	var items []entity.ShipmentItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// AddItem agrega una línea. Expedición o producto inexistente devuelven ErrNotFound.
func (r *ShipmentRepo) AddItem(ctx context.Context, it *entity.ShipmentItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO shipment_items (id, shipment_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
		it.ID, it.ShipmentID, it.ProductID, it.Quantity,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert shipment item: %w", err)
	}
	return nil
}

// GetItem obtiene una línea.
func (r *ShipmentRepo) GetItem(ctx context.Context, itemID string) (*entity.ShipmentItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment item: %w", err)
	}
	return it, nil
}

// DeleteItem borra una línea.
func (r *ShipmentRepo) DeleteItem(ctx context.Context, itemID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shipment_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete shipment item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
