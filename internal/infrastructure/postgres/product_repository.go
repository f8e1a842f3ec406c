package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, category, unit, quantity, min_quantity, location, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Unit,
		&p.Quantity, &p.MinQuantity, &p.Location, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Category, p.Unit,
		p.Quantity, p.MinQuantity, p.Location, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, what, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code", `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

// GetForUpdate lee el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "lock product", `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza los campos descriptivos. El saldo se maneja solo vía UpdateQuantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, description = $4, category = $5, unit = $6,
			min_quantity = $7, location = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Category, p.Unit, p.MinQuantity, p.Location, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija el saldo del producto.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Si aún tiene referencias devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsReferenced indica si hay movimientos o líneas de expedición que apuntan al producto.
func (r *ProductRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	var referenced bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM movements WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM shipment_items WHERE product_id = $1)`, id,
	).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("check product references: %w", err)
	}
	return referenced, nil
}

func (r *ProductRepo) list(ctx context.Context, query string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// List devuelve todos los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

// ListLowStock devuelve los productos con saldo en o por debajo de su umbral.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE quantity <= min_quantity ORDER BY name`)
}

// Stats resume el catálogo.
func (r *ProductRepo) Stats(ctx context.Context) (repository.ProductStats, error) {
	var s repository.ProductStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity), 0), COUNT(*) FILTER (WHERE quantity <= min_quantity)
		FROM products`,
	).Scan(&s.TotalProducts, &s.TotalItems, &s.LowStock)
	if err != nil {
		return s, fmt.Errorf("product stats: %w", err)
	}
	return s, nil
}

// StockByCategory suma el saldo por categoría.
func (r *ProductRepo) StockByCategory(ctx context.Context) ([]repository.CategoryStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT category, COALESCE(SUM(quantity), 0)
		FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("stock by category: %w", err)
	}
	defer rows.Close()
	var out []repository.CategoryStock
	for rows.Next() {
		var c repository.CategoryStock
		if err := rows.Scan(&c.Category, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan category stock: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
