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

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementSelect = `
	SELECT m.id, m.product_id, m.type, m.quantity, m.previous_quantity, m.user_id, m.notes, m.created_at,
		COALESCE(p.name, '')
	FROM movements m LEFT JOIN products p ON p.id = m.product_id`

// MovementRepo persistencia del libro de movimientos (append-only salvo Delete).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el repo. Pasar pool o tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousQuantity,
		&m.UserID, &m.Notes, &m.CreatedAt, &m.ProductName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create registra un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, type, quantity, previous_quantity, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.PreviousQuantity, m.UserID, m.Notes, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con el nombre del producto.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Delete elimina el movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los movimientos más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := movementSelect
	args := []any{}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		query += fmt.Sprintf(` WHERE m.product_id = $%d`, len(args))
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByType cuenta movimientos por tipo desde since.
func (r *MovementRepo) CountByType(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.q.Query(ctx,
		`SELECT type, COUNT(*) FROM movements WHERE created_at >= $1 GROUP BY type`, since)
	if err != nil {
		return nil, fmt.Errorf("count movements by type: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan movement count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// Count total histórico de movimientos.
func (r *MovementRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// DailyTotals suma unidades de entrada y salida por día UTC; solo días con movimientos.
func (r *MovementRepo) DailyTotals(ctx context.Context, from time.Time) ([]repository.DailyMovementTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			COALESCE(SUM(quantity) FILTER (WHERE type = 'entrada'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE type = 'saida'), 0)
		FROM movements
		WHERE created_at >= $1
		GROUP BY day ORDER BY day`, from)
	if err != nil {
		return nil, fmt.Errorf("daily movement totals: %w", err)
	}
	defer rows.Close()
	var out []repository.DailyMovementTotal
	for rows.Next() {
		var d repository.DailyMovementTotal
		if err := rows.Scan(&d.Day, &d.Entries, &d.Exits); err != nil {
			return nil, fmt.Errorf("scan daily totals: %w", err)
		}
		d.Day = time.Date(d.Day.Year(), d.Day.Month(), d.Day.Day(), 0, 0, 0, 0, time.UTC)
		out = append(out, d)
	}
	return out, rows.Err()
}
