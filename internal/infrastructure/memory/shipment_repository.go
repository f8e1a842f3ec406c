package memory

import (
	"context"
	"time"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación en memoria de ShipmentRepository.
type ShipmentRepo struct {
	tx txView
}

func (r *ShipmentRepo) Create(_ context.Context, s *entity.Shipment) error {
	return r.tx.do(OpShipmentCreate, func(st *state) error {
		for _, other := range st.shipments {
			if other.OrderNumber == s.OrderNumber {
				return domain.ErrDuplicate
			}
		}
		cp := *s
		cp.Items = nil
		st.shipments[s.ID] = cp
		st.shipOrder = append(st.shipOrder, s.ID)
		return nil
	})
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.tx.do("", func(st *state) error {
		if s, ok := st.shipments[id]; ok {
			out = withItems(st, s)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el store ya está bloqueado durante la transacción.
func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *ShipmentRepo) GetByOrderNumber(_ context.Context, orderNumber string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.tx.do("", func(st *state) error {
		for _, s := range st.shipments {
			if s.OrderNumber == orderNumber {
				out = withItems(st, s)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) List(_ context.Context) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	err := r.tx.do("", func(st *state) error {
		for i := len(st.shipOrder) - 1; i >= 0; i-- {
			out = append(out, withItems(st, st.shipments[st.shipOrder[i]]))
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) UpdateStatus(_ context.Context, id, status string, shippedAt *time.Time) error {
	return r.tx.do(OpShipmentUpdateStatus, func(st *state) error {
		s, ok := st.shipments[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.Status = status
		if shippedAt != nil {
			t := *shippedAt
			s.ShippedAt = &t
		} else {
			s.ShippedAt = nil
		}
		st.shipments[id] = s
		return nil
	})
}

func (r *ShipmentRepo) Delete(_ context.Context, id string) error {
	return r.tx.do(OpShipmentDelete, func(st *state) error {
		if _, ok := st.shipments[id]; !ok {
			return domain.ErrNotFound
		}
		for itemID, it := range st.items {
			if it.ShipmentID == id {
				delete(st.items, itemID)
				st.itemOrder = removeID(st.itemOrder, itemID)
			}
		}
		delete(st.shipments, id)
		st.shipOrder = removeID(st.shipOrder, id)
		return nil
	})
}

func (r *ShipmentRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	err := r.tx.do("", func(st *state) error {
		for _, s := range st.shipments {
			counts[s.Status]++
		}
		return nil
	})
	return counts, err
}

func (r *ShipmentRepo) AddItem(_ context.Context, item *entity.ShipmentItem) error {
	return r.tx.do(OpShipmentAddItem, func(st *state) error {
		if _, ok := st.shipments[item.ShipmentID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return domain.ErrNotFound
		}
		cp := *item
		cp.ProductName = ""
		st.items[item.ID] = cp
		st.itemOrder = append(st.itemOrder, item.ID)
		return nil
	})
}

func (r *ShipmentRepo) GetItem(_ context.Context, itemID string) (*entity.ShipmentItem, error) {
	var out *entity.ShipmentItem
	err := r.tx.do("", func(st *state) error {
		if it, ok := st.items[itemID]; ok {
			it.ProductName = st.products[it.ProductID].Name
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) DeleteItem(_ context.Context, itemID string) error {
	return r.tx.do(OpShipmentDeleteItem, func(st *state) error {
		if _, ok := st.items[itemID]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, itemID)
		st.itemOrder = removeID(st.itemOrder, itemID)
		return nil
	})
}

func withItems(st *state, s entity.Shipment) *entity.Shipment {
	if s.ShippedAt != nil {
		t := *s.ShippedAt
		s.ShippedAt = &t
	}
	s.Items = nil
	for _, id := range st.itemOrder {
		it := st.items[id]
		if it.ShipmentID != s.ID {
			continue
		}
		it.ProductName = st.products[it.ProductID].Name
		s.Items = append(s.Items, it)
	}
	return &s
}
