package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	tx txView
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.tx.do(OpProductCreate, func(st *state) error {
		for _, p := range st.products {
			if p.Code == product.Code {
				return domain.ErrDuplicate
			}
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.tx.do("", func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el store ya está bloqueado durante la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.tx.do("", func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.tx.do(OpProductUpdate, func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, p := range st.products {
			if id != product.ID && p.Code == product.Code {
				return domain.ErrDuplicate
			}
		}
		next := *product
		next.Quantity = cur.Quantity
		next.CreatedAt = cur.CreatedAt
		st.products[product.ID] = next
		return nil
	})
}

func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	return r.tx.do(OpProductUpdateQuantity, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Quantity = quantity
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.tx.do(OpProductDelete, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.tx.do("", func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == id {
				found = true
				return nil
			}
		}
		for _, it := range st.items {
			if it.ProductID == id {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	return r.list(func(*entity.Product) bool { return true })
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return r.list((*entity.Product).IsLowStock)
}

func (r *ProductRepo) list(keep func(*entity.Product) bool) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.tx.do("", func(st *state) error {
		for _, p := range st.products {
			p := p
			if keep(&p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

func (r *ProductRepo) Stats(_ context.Context) (repository.ProductStats, error) {
	var st repository.ProductStats
	err := r.tx.do("", func(s *state) error {
		for _, p := range s.products {
			st.TotalProducts++
			st.TotalItems += p.Quantity
			if p.IsLowStock() {
				st.LowStock++
			}
		}
		return nil
	})
	return st, err
}

func (r *ProductRepo) StockByCategory(_ context.Context) ([]repository.CategoryStock, error) {
	totals := map[string]int{}
	err := r.tx.do("", func(st *state) error {
		for _, p := range st.products {
			totals[p.Category] += p.Quantity
		}
		return nil
	})
	out := make([]repository.CategoryStock, 0, len(totals))
	for c, q := range totals {
		out = append(out, repository.CategoryStock{Category: c, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, err
}
