// Package memory implementa los repositorios y el TxRunner en memoria. Sirve para
// desarrollo sin PostgreSQL (DB_DRIVER=memory) y como doble de pruebas.
//
// Una transacción toma el mutex del store durante toda su duración (equivale a bloquear
// todas las filas) y trabaja sobre una copia del estado; Commit reemplaza el estado, un
// error lo descarta. FailOn permite simular fallos de almacenamiento en cualquier operación.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/application/shipping"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ shipping.TxRunner  = (*Store)(nil)
)

// Nombres de operación aceptados por FailOn.
const (
	OpProductCreate         = "products.create"
	OpProductUpdate         = "products.update"
	OpProductUpdateQuantity = "products.update_quantity"
	OpProductDelete         = "products.delete"
	OpMovementCreate        = "movements.create"
	OpMovementDelete        = "movements.delete"
	OpShipmentCreate        = "shipments.create"
	OpShipmentUpdateStatus  = "shipments.update_status"
	OpShipmentDelete        = "shipments.delete"
	OpShipmentAddItem       = "shipments.add_item"
	OpShipmentDeleteItem    = "shipments.delete_item"
	OpUserCreate            = "users.create"
	OpUserUpdate            = "users.update"
	OpUserDelete            = "users.delete"
)

type state struct {
	products  map[string]entity.Product
	movements map[string]entity.Movement
	movOrder  []string
	shipments map[string]entity.Shipment
	shipOrder []string
	items     map[string]entity.ShipmentItem
	itemOrder []string
	users     map[string]entity.User
	userOrder []string
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		movements: map[string]entity.Movement{},
		shipments: map[string]entity.Shipment{},
		items:     map[string]entity.ShipmentItem{},
		users:     map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.shipments {
		c.shipments[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.movOrder = append([]string(nil), s.movOrder...)
	c.shipOrder = append([]string(nil), s.shipOrder...)
	c.itemOrder = append([]string(nil), s.itemOrder...)
	c.userOrder = append([]string(nil), s.userOrder...)
	return c
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu       sync.Mutex
	data     *state
	failures map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState(), failures: map[string]error{}}
}

// FailOn hace que la operación op devuelva err hasta que se llame ClearFailures.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures elimina los fallos simulados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

// Products, Movements, Shipments y Users devuelven repos en modo autocommit.
func (s *Store) Products() *ProductRepo   { return &ProductRepo{tx: txView{store: s}} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{tx: txView{store: s}} }
func (s *Store) Shipments() *ShipmentRepo { return &ShipmentRepo{tx: txView{store: s}} }
func (s *Store) Users() *UserRepo         { return &UserRepo{tx: txView{store: s}} }

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.inTx(ctx, func(v txView) error {
		return fn(&MovementRepo{tx: v}, &ProductRepo{tx: v})
	})
}

// RunShipping implementa shipping.TxRunner.
func (s *Store) RunShipping(ctx context.Context, fn func(
	shipmentRepo repository.ShipmentRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.inTx(ctx, func(v txView) error {
		return fn(&ShipmentRepo{tx: v}, &ProductRepo{tx: v})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(v txView) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(txView{store: s, st: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// txView ata un repo al estado de una transacción (st != nil) o al store en autocommit.
type txView struct {
	store *Store
	st    *state
}

func (v txView) do(op string, fn func(st *state) error) error {
	if v.st != nil {
		if err := v.store.failures[op]; err != nil {
			return err
		}
		return fn(v.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if err := v.store.failures[op]; err != nil {
		return err
	}
	return fn(v.store.data)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
