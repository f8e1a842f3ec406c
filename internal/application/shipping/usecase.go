// Package shipping implementa el ciclo de vida de las expediciones: líneas, cambios de
// estado y el despacho, que descuenta el stock agregado de todas las líneas de una vez.
//
// La verificación de stock al agregar una línea es solo informativa: no reserva unidades,
// así que varias expediciones pueden comprometer el mismo stock. La verificación que manda
// es la del despacho, hecha con las filas de producto bloqueadas; la primera expedición que
// se despacha se queda con el stock y las siguientes fallan con stock insuficiente.
package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/inventory"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// ShipmentUseCase casos de uso de expediciones.
type ShipmentUseCase struct {
	txRunner     TxRunner
	shipmentRepo repository.ShipmentRepository
	productRepo  repository.ProductRepository
	now          func() time.Time
}

// NewShipmentUseCase construye el caso de uso. Los repos sueltos se usan para lecturas.
func NewShipmentUseCase(txRunner TxRunner, shipmentRepo repository.ShipmentRepository, productRepo repository.ProductRepository) *ShipmentUseCase {
	return &ShipmentUseCase{
		txRunner:     txRunner,
		shipmentRepo: shipmentRepo,
		productRepo:  productRepo,
		now:          time.Now,
	}
}

// Create crea una expedición en estado pending.
func (uc *ShipmentUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.OrderNumber == "" {
		return nil, domain.Invalid("order_number", "requerido")
	}
	existing, err := uc.shipmentRepo.GetByOrderNumber(ctx, in.OrderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	s := &entity.Shipment{
		ID:              uuid.New().String(),
		OrderNumber:     in.OrderNumber,
		CustomerName:    in.CustomerName,
		CustomerAddress: in.CustomerAddress,
		Status:          entity.ShipmentStatusPending,
		UserID:          actor.UserID,
		Notes:           in.Notes,
		CreatedAt:       uc.now().UTC(),
	}
	if err := uc.shipmentRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	log.Info().Str("shipment_id", s.ID).Str("order_number", s.OrderNumber).Msg("expedición creada")
	return toShipmentResponse(s), nil
}

// Get devuelve la expedición con sus líneas.
func (uc *ShipmentUseCase) Get(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	s, err := uc.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toShipmentResponse(s), nil
}

// List devuelve todas las expediciones, más recientes primero.
func (uc *ShipmentUseCase) List(ctx context.Context) ([]dto.ShipmentResponse, error) {
	list, err := uc.shipmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toShipmentResponse(s))
	}
	return out, nil
}

// Stats cuenta expediciones por estado.
func (uc *ShipmentUseCase) Stats(ctx context.Context) (*dto.ShipmentStatsResponse, error) {
	counts, err := uc.shipmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &dto.ShipmentStatsResponse{
		Pending:    counts[entity.ShipmentStatusPending],
		InProgress: counts[entity.ShipmentStatusInProgress],
		Shipped:    counts[entity.ShipmentStatusShipped],
		Total:      total,
	}, nil
}

// AddItem agrega una línea. Falla con stock insuficiente si el saldo actual no cubre la
// cantidad de esta línea, pero no reserva nada (ver doc del paquete).
// Una expedición ya despachada no admite cambios en sus líneas.
func (uc *ShipmentUseCase) AddItem(ctx context.Context, actor entity.Actor, shipmentID string, in dto.AddShipmentItemRequest) (*dto.ShipmentItemResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	var item *entity.ShipmentItem
	err := uc.txRunner.RunShipping(ctx, func(shipmentRepo repository.ShipmentRepository, productRepo repository.ProductRepository) error {
		s, err := shipmentRepo.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.IsShipped() {
			return domain.ErrConflict
		}
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Quantity < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Required:    in.Quantity,
			}
		}
		item = &entity.ShipmentItem{
			ID:          uuid.New().String(),
			ShipmentID:  s.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
		}
		return shipmentRepo.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ShipmentItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
	}, nil
}

// RemoveItem borra una línea. No hay reserva que liberar.
func (uc *ShipmentUseCase) RemoveItem(ctx context.Context, actor entity.Actor, itemID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.RunShipping(ctx, func(shipmentRepo repository.ShipmentRepository, _ repository.ProductRepository) error {
		item, err := shipmentRepo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		s, err := shipmentRepo.GetForUpdate(ctx, item.ShipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.IsShipped() {
			return domain.ErrConflict
		}
		return shipmentRepo.DeleteItem(ctx, itemID)
	})
}

// UpdateStatus cambia el estado. La primera transición a shipped agrega las líneas por
// producto, verifica todo-o-nada contra los saldos bloqueados, descuenta y fija shipped_at.
// Volver a marcar shipped una expedición ya despachada no descuenta de nuevo.
func (uc *ShipmentUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, shipmentID, status string) (*dto.ShipmentResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.IsValidShipmentStatus(status) {
		return nil, domain.Invalid("status", "debe ser pending, in_progress, shipped o cancelled")
	}
	now := uc.now().UTC()
	var (
		updated  *entity.Shipment
		demands  []inventory.Demand
		dispatch bool
	)
	err := uc.txRunner.RunShipping(ctx, func(shipmentRepo repository.ShipmentRepository, productRepo repository.ProductRepository) error {
		s, err := shipmentRepo.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if status == entity.ShipmentStatusShipped && !s.IsShipped() {
			dispatch = true
			demands = inventory.Aggregate(s.Items)
			products, err := lockProducts(ctx, productRepo, demands)
			if err != nil {
				return err
			}
			if err := inventory.CheckAvailability(demands, products); err != nil {
				return err
			}
			for _, d := range demands {
				p := products[d.ProductID]
				if err := productRepo.UpdateQuantity(ctx, p.ID, p.Quantity-d.Quantity); err != nil {
					return err
				}
			}
			s.ShippedAt = &now
		}
		s.Status = status
		if err := shipmentRepo.UpdateStatus(ctx, s.ID, s.Status, s.ShippedAt); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("shipment_id", shipmentID).Str("status", status).Msg("cambio de estado rechazado")
		return nil, err
	}
	ev := log.Info().Str("shipment_id", updated.ID).Str("status", updated.Status).Str("user_id", actor.UserID)
	if dispatch {
		ev = ev.Int("products_debited", len(demands))
	}
	ev.Msg("estado de expedición actualizado")
	return toShipmentResponse(updated), nil
}

// Delete borra la expedición y sus líneas. Si ya estaba despachada, devuelve al stock las
// cantidades descontadas en la misma transacción.
func (uc *ShipmentUseCase) Delete(ctx context.Context, actor entity.Actor, shipmentID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	var restored bool
	err := uc.txRunner.RunShipping(ctx, func(shipmentRepo repository.ShipmentRepository, productRepo repository.ProductRepository) error {
		s, err := shipmentRepo.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.IsShipped() {
			demands := inventory.Aggregate(s.Items)
			products, err := lockProducts(ctx, productRepo, demands)
			if err != nil {
				return err
			}
			for _, d := range demands {
				p := products[d.ProductID]
				if err := productRepo.UpdateQuantity(ctx, p.ID, p.Quantity+d.Quantity); err != nil {
					return err
				}
			}
			restored = true
		}
		return shipmentRepo.Delete(ctx, s.ID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("shipment_id", shipmentID).Bool("stock_restored", restored).Str("user_id", actor.UserID).Msg("expedición eliminada")
	return nil
}

// lockProducts bloquea las filas de producto en orden de ID.
func lockProducts(ctx context.Context, productRepo repository.ProductRepository, demands []inventory.Demand) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(demands))
	for _, id := range inventory.LockOrder(demands) {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		products[id] = p
	}
	return products, nil
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	items := make([]dto.ShipmentItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.ShipmentItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
		})
	}
	return &dto.ShipmentResponse{
		ID:              s.ID,
		OrderNumber:     s.OrderNumber,
		CustomerName:    s.CustomerName,
		CustomerAddress: s.CustomerAddress,
		Status:          s.Status,
		UserID:          s.UserID,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
		ShippedAt:       s.ShippedAt,
		Items:           items,
	}
}
