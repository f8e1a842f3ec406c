package shipping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/shipping"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/memory"
)

var actor = entity.Actor{UserID: "u-1", Role: entity.RoleUser}

type fixture struct {
	store *memory.Store
	uc    *shipping.ShipmentUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store: store,
		uc:    shipping.NewShipmentUseCase(store, store.Shipments(), store.Products()),
	}
}

func (f *fixture) product(t *testing.T, code string, qty int) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.New().String(), Code: code, Name: "Producto " + code,
		Unit: entity.DefaultUnit, Quantity: qty, MinQuantity: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) shipment(t *testing.T, order string) *dto.ShipmentResponse {
	t.Helper()
	s, err := f.uc.Create(context.Background(), actor, dto.CreateShipmentRequest{
		OrderNumber: order, CustomerName: "Cliente", CustomerAddress: "Calle 1",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) addItem(t *testing.T, shipmentID, productID string, qty int) {
	t.Helper()
	_, err := f.uc.AddItem(context.Background(), actor, shipmentID, dto.AddShipmentItemRequest{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func TestCreate(t *testing.T) {
	f := newFixture()
	s := f.shipment(t, "ORD-1")

	assert.Equal(t, entity.ShipmentStatusPending, s.Status)
	assert.Equal(t, actor.UserID, s.UserID)
	assert.Nil(t, s.ShippedAt)

	_, err := f.uc.Create(context.Background(), actor, dto.CreateShipmentRequest{OrderNumber: "ORD-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.uc.Create(context.Background(), actor, dto.CreateShipmentRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_AdvisoryCheck(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 3)
	s := f.shipment(t, "ORD-1")

	_, err := f.uc.AddItem(context.Background(), actor, s.ID, dto.AddShipmentItemRequest{ProductID: p.ID, Quantity: 4})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	f.addItem(t, s.ID, p.ID, 3)
	// La verificación es por línea, no reserva: una segunda línea igual también pasa.
	f.addItem(t, s.ID, p.ID, 3)
	assert.Equal(t, 3, f.quantity(t, p.ID))

	got, err := f.uc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, p.Name, got.Items[0].ProductName)
}

func TestAddItem_Errors(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 3)
	s := f.shipment(t, "ORD-1")
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, actor, "missing", dto.AddShipmentItemRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.AddItem(ctx, actor, s.ID, dto.AddShipmentItemRequest{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.AddItem(ctx, actor, s.ID, dto.AddShipmentItemRequest{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShip_AggregatesLinesPerProduct(t *testing.T) {
	tests := []struct {
		name    string
		stock   int
		wantErr bool
		after   int
	}{
		{"agregado supera el saldo", 4, true, 4},
		{"agregado exacto", 5, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			p := f.product(t, "P1", tt.stock)
			s := f.shipment(t, "ORD-1")
			f.addItem(t, s.ID, p.ID, 3)
			f.addItem(t, s.ID, p.ID, 2)

			resp, err := f.uc.UpdateStatus(context.Background(), actor, s.ID, entity.ShipmentStatusShipped)

			if tt.wantErr {
				var stockErr *domain.InsufficientStockError
				require.True(t, errors.As(err, &stockErr))
				assert.Equal(t, 4, stockErr.Available)
				assert.Equal(t, 5, stockErr.Required)

				got, err := f.uc.Get(context.Background(), s.ID)
				require.NoError(t, err)
				assert.Equal(t, entity.ShipmentStatusPending, got.Status)
				assert.Nil(t, got.ShippedAt)
			} else {
				require.NoError(t, err)
				assert.Equal(t, entity.ShipmentStatusShipped, resp.Status)
				assert.NotNil(t, resp.ShippedAt)
			}
			assert.Equal(t, tt.after, f.quantity(t, p.ID))
		})
	}
}

func TestShip_AllOrNothingAcrossProducts(t *testing.T) {
	f := newFixture()
	a := f.product(t, "A", 10)
	b := f.product(t, "B", 1)
	s := f.shipment(t, "ORD-1")
	f.addItem(t, s.ID, a.ID, 5)
	f.addItem(t, s.ID, b.ID, 1)

	// Otro movimiento consume B antes del despacho.
	require.NoError(t, f.store.Products().UpdateQuantity(context.Background(), b.ID, 0))

	_, err := f.uc.UpdateStatus(context.Background(), actor, s.ID, entity.ShipmentStatusShipped)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.quantity(t, a.ID))
	assert.Equal(t, 0, f.quantity(t, b.ID))
}

func TestShip_StorageFailureRollsBack(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 5)
	s := f.shipment(t, "ORD-1")
	f.addItem(t, s.ID, p.ID, 2)
	f.store.FailOn(memory.OpShipmentUpdateStatus, errors.New("conexión perdida"))

	_, err := f.uc.UpdateStatus(context.Background(), actor, s.ID, entity.ShipmentStatusShipped)

	require.Error(t, err)
	f.store.ClearFailures()
	assert.Equal(t, 5, f.quantity(t, p.ID))
}

func TestShip_IsIdempotent(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 5)
	s := f.shipment(t, "ORD-1")
	f.addItem(t, s.ID, p.ID, 2)
	ctx := context.Background()

	first, err := f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusShipped)
	require.NoError(t, err)
	second, err := f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusShipped)
	require.NoError(t, err)

	assert.Equal(t, 3, f.quantity(t, p.ID))
	require.NotNil(t, second.ShippedAt)
	assert.True(t, first.ShippedAt.Equal(*second.ShippedAt))

	// Salir de shipped no devuelve stock ni borra shipped_at; volver no descuenta otra vez.
	back, err := f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusInProgress)
	require.NoError(t, err)
	assert.NotNil(t, back.ShippedAt)
	_, err = f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, 3, f.quantity(t, p.ID))
}

func TestShip_EmptyShipment(t *testing.T) {
	f := newFixture()
	s := f.shipment(t, "ORD-1")

	resp, err := f.uc.UpdateStatus(context.Background(), actor, s.ID, entity.ShipmentStatusShipped)

	require.NoError(t, err)
	assert.NotNil(t, resp.ShippedAt)
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newFixture()
	s := f.shipment(t, "ORD-1")
	ctx := context.Background()

	_, err := f.uc.UpdateStatus(ctx, actor, s.ID, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateStatus(ctx, actor, "missing", entity.ShipmentStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusCancelled, resp.Status)
}

func TestShippedItemsAreFrozen(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 5)
	s := f.shipment(t, "ORD-1")
	f.addItem(t, s.ID, p.ID, 2)
	ctx := context.Background()
	shipped, err := f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusShipped)
	require.NoError(t, err)

	_, err = f.uc.AddItem(ctx, actor, s.ID, dto.AddShipmentItemRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.uc.RemoveItem(ctx, actor, shipped.Items[0].ID), domain.ErrConflict)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 5)
	s := f.shipment(t, "ORD-1")
	f.addItem(t, s.ID, p.ID, 2)
	ctx := context.Background()
	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveItem(ctx, actor, got.Items[0].ID))
	assert.ErrorIs(t, f.uc.RemoveItem(ctx, actor, got.Items[0].ID), domain.ErrNotFound)

	got, err = f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, 5, f.quantity(t, p.ID))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("pendiente no toca stock", func(t *testing.T) {
		f := newFixture()
		p := f.product(t, "P1", 5)
		s := f.shipment(t, "ORD-1")
		f.addItem(t, s.ID, p.ID, 2)

		require.NoError(t, f.uc.Delete(ctx, actor, s.ID))
		assert.Equal(t, 5, f.quantity(t, p.ID))
		_, err := f.uc.Get(ctx, s.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("despachada devuelve stock", func(t *testing.T) {
		f := newFixture()
		p := f.product(t, "P1", 5)
		s := f.shipment(t, "ORD-1")
		f.addItem(t, s.ID, p.ID, 2)
		f.addItem(t, s.ID, p.ID, 1)
		_, err := f.uc.UpdateStatus(ctx, actor, s.ID, entity.ShipmentStatusShipped)
		require.NoError(t, err)
		require.Equal(t, 2, f.quantity(t, p.ID))

		require.NoError(t, f.uc.Delete(ctx, actor, s.ID))
		assert.Equal(t, 5, f.quantity(t, p.ID))
	})

	t.Run("inexistente", func(t *testing.T) {
		f := newFixture()
		assert.ErrorIs(t, f.uc.Delete(ctx, actor, "missing"), domain.ErrNotFound)
	})
}

func TestOverCommitHazard_FirstDispatchWins(t *testing.T) {
	f := newFixture()
	p := f.product(t, "P1", 5)
	first := f.shipment(t, "ORD-1")
	second := f.shipment(t, "ORD-2")
	f.addItem(t, first.ID, p.ID, 4)
	f.addItem(t, second.ID, p.ID, 4)
	ctx := context.Background()

	_, err := f.uc.UpdateStatus(ctx, actor, first.ID, entity.ShipmentStatusShipped)
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, actor, second.ID, entity.ShipmentStatusShipped)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.quantity(t, p.ID))
}

func TestListAndStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.shipment(t, "ORD-1")
	f.shipment(t, "ORD-2")
	c := f.shipment(t, "ORD-3")
	_, err := f.uc.UpdateStatus(ctx, actor, a.ID, entity.ShipmentStatusShipped)
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, actor, c.ID, entity.ShipmentStatusInProgress)
	require.NoError(t, err)

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ORD-3", list[0].OrderNumber)

	stats, err := f.uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Shipped)
	assert.Equal(t, 3, stats.Total)
}
