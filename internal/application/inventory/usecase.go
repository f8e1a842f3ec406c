package inventory

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

// DefaultListLimit cantidad de movimientos devueltos si no se indica límite.
const DefaultListLimit = 100

// MovementUseCase registra y revierte movimientos de stock (entrada, saida, ajuste).
// Cada escritura bloquea la fila del producto (SELECT FOR UPDATE) y actualiza saldo y
// libro en la misma transacción.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	now      func() time.Time
}

// NewMovementUseCase construye el caso de uso. movRepo se usa solo para lecturas.
func NewMovementUseCase(txRunner TxRunner, movRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, movRepo: movRepo, now: time.Now}
}

// MovementInputDTO entrada para registrar un movimiento.
type MovementInputDTO struct {
	Actor     entity.Actor
	ProductID string
	Type      string
	Quantity  int
	Notes     string
}

// Record valida la entrada, bloquea el producto, aplica el movimiento al saldo y lo guarda.
// saida con saldo insuficiente devuelve *domain.InsufficientStockError sin cambios.
func (uc *MovementUseCase) Record(ctx context.Context, input MovementInputDTO) (*dto.MovementResponse, error) {
	if input.Actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if input.ProductID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	if err := inventory.ValidateMovement(input.Type, input.Quantity); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var (
		mov     *entity.Movement
		product *entity.Product
		next    int
	)
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		var err error
		product, err = productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		next, err = inventory.Apply(product, input.Type, input.Quantity)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(ctx, product.ID, next); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:               uuid.New().String(),
			ProductID:        product.ID,
			Type:             input.Type,
			Quantity:         input.Quantity,
			PreviousQuantity: product.Quantity,
			UserID:           input.Actor.UserID,
			Notes:            input.Notes,
			CreatedAt:        now,
			ProductName:      product.Name,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("product_id", input.ProductID).
			Str("type", input.Type).
			Int("quantity", input.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}
	log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", product.ID).
		Str("type", mov.Type).
		Int("before", mov.PreviousQuantity).
		Int("after", next).
		Str("user_id", mov.UserID).
		Msg("movimiento registrado")
	return toMovementResponse(mov), nil
}

// Delete revierte el efecto del movimiento sobre el saldo y lo elimina, en una transacción.
// Un ajuste se revierte con el delta inverso respecto al saldo previo que registró.
func (uc *MovementUseCase) Delete(ctx context.Context, actor entity.Actor, movementID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	if movementID == "" {
		return domain.Invalid("id", "requerido")
	}
	var before, after int
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		var err error
		mov, err = movRepo.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		product, err := productRepo.GetForUpdate(ctx, mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		before = product.Quantity
		after, err = inventory.Reverse(product, mov)
		if err != nil {
			return err
		}
		// Delete devuelve ErrNotFound si otra transacción ya lo borró mientras esperábamos el bloqueo.
		if err := movRepo.Delete(ctx, mov.ID); err != nil {
			return err
		}
		return productRepo.UpdateQuantity(ctx, product.ID, after)
	})
	if err != nil {
		log.Warn().Err(err).Str("movement_id", movementID).Msg("no se pudo eliminar el movimiento")
		return err
	}
	log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("type", mov.Type).
		Int("before", before).
		Int("after", after).
		Str("user_id", actor.UserID).
		Msg("movimiento revertido")
	return nil
}

// List devuelve los movimientos más recientes, opcionalmente de un solo producto.
func (uc *MovementUseCase) List(ctx context.Context, productID string, limit int) ([]dto.MovementResponse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// Stats cuenta los movimientos de hoy por tipo y el total histórico.
func (uc *MovementUseCase) Stats(ctx context.Context) (*dto.MovementStatsResponse, error) {
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	byType, err := uc.movRepo.CountByType(ctx, today)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.MovementStatsResponse{
		EntriesToday:     byType[entity.MovementTypeEntrada],
		ExitsToday:       byType[entity.MovementTypeSaida],
		AdjustmentsToday: byType[entity.MovementTypeAjuste],
		TotalMovements:   total,
	}, nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		UserID:           m.UserID,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}
}
