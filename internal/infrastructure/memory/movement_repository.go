package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	tx txView
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.tx.do(OpMovementCreate, func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.movements[m.ID] = *m
		st.movOrder = append(st.movOrder, m.ID)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.tx.do("", func(st *state) error {
		if m, ok := st.movements[id]; ok {
			m.ProductName = st.products[m.ProductID].Name
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.tx.do(OpMovementDelete, func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.movements, id)
		st.movOrder = removeID(st.movOrder, id)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.tx.do("", func(st *state) error {
		for i := len(st.movOrder) - 1; i >= 0; i-- {
			m := st.movements[st.movOrder[i]]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			m.ProductName = st.products[m.ProductID].Name
			out = append(out, &m)
			if f.Limit > 0 && len(out) == f.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) CountByType(_ context.Context, since time.Time) (map[string]int, error) {
	counts := map[string]int{}
	err := r.tx.do("", func(st *state) error {
		for _, m := range st.movements {
			if !m.CreatedAt.Before(since) {
				counts[m.Type]++
			}
		}
		return nil
	})
	return counts, err
}

func (r *MovementRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.tx.do("", func(st *state) error {
		n = len(st.movements)
		return nil
	})
	return n, err
}

func (r *MovementRepo) DailyTotals(_ context.Context, from time.Time) ([]repository.DailyMovementTotal, error) {
	byDay := map[time.Time]*repository.DailyMovementTotal{}
	err := r.tx.do("", func(st *state) error {
		for _, m := range st.movements {
			if m.CreatedAt.Before(from) {
				continue
			}
			t := m.CreatedAt.UTC()
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			d, ok := byDay[day]
			if !ok {
				d = &repository.DailyMovementTotal{Day: day}
				byDay[day] = d
			}
			switch m.Type {
			case entity.MovementTypeEntrada:
				d.Entries += m.Quantity
			case entity.MovementTypeSaida:
				d.Exits += m.Quantity
			}
		}
		return nil
	})
	out := make([]repository.DailyMovementTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, err
}
