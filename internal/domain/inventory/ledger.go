// Package inventory contiene las reglas del libro de stock: cómo cada movimiento
// y cada despacho cambian Product.quantity. Son funciones puras; la persistencia
// y el bloqueo de filas viven en la capa de aplicación.
package inventory

import (
	"sort"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// ValidateMovement valida tipo y cantidad antes de tocar el saldo.
// entrada y saida exigen cantidad > 0; ajuste exige cantidad >= 0.
func ValidateMovement(movType string, quantity int) error {
	if !entity.IsValidMovementType(movType) {
		return domain.Invalid("type", "debe ser entrada, saida o ajuste")
	}
	if movType == entity.MovementTypeAjuste {
		if quantity < 0 {
			return domain.Invalid("quantity", "el ajuste no puede ser negativo")
		}
		return nil
	}
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	return nil
}

// Apply devuelve el saldo resultante de aplicar el movimiento sobre current.
// saida falla con InsufficientStockError si current < quantity.
func Apply(product *entity.Product, movType string, quantity int) (int, error) {
	if err := ValidateMovement(movType, quantity); err != nil {
		return 0, err
	}
	switch movType {
	case entity.MovementTypeEntrada:
		return product.Quantity + quantity, nil
	case entity.MovementTypeSaida:
		if product.Quantity < quantity {
			return 0, shortage(product, quantity)
		}
		return product.Quantity - quantity, nil
	default:
		return quantity, nil
	}
}

// Reverse devuelve el saldo tras deshacer m sobre el saldo actual del producto.
// El ajuste se deshace aplicando el delta inverso (quantity - previous), de modo que los
// movimientos posteriores al ajuste se conservan. Si la reversión dejaría el saldo en
// negativo se rechaza.
func Reverse(product *entity.Product, m *entity.Movement) (int, error) {
	var delta int
	switch m.Type {
	case entity.MovementTypeEntrada:
		delta = -m.Quantity
	case entity.MovementTypeSaida:
		delta = m.Quantity
	case entity.MovementTypeAjuste:
		delta = m.PreviousQuantity - m.Quantity
	default:
		return 0, domain.Invalid("type", "tipo de movimiento desconocido")
	}
	next := product.Quantity + delta
	if next < 0 {
		return 0, shortage(product, -delta)
	}
	return next, nil
}

// Demand es la cantidad agregada de un producto dentro de una expedición.
type Demand struct {
	ProductID string
	Quantity  int
}

// Aggregate suma las líneas por producto. El orden del resultado es el de la primera
// aparición de cada producto en items.
func Aggregate(items []entity.ShipmentItem) []Demand {
	idx := make(map[string]int, len(items))
	out := make([]Demand, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, Demand{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// LockOrder devuelve los IDs de producto ordenados; bloquear filas siempre en este orden
// evita interbloqueos entre despachos concurrentes.
func LockOrder(demands []Demand) []string {
	ids := make([]string, 0, len(demands))
	for _, d := range demands {
		ids = append(ids, d.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// CheckAvailability verifica todo-o-nada que cada producto cubra su demanda agregada.
// Devuelve el error del primer producto (en orden de demands) que no alcanza.
func CheckAvailability(demands []Demand, products map[string]*entity.Product) error {
	for _, d := range demands {
		p, ok := products[d.ProductID]
		if !ok || p == nil {
			return domain.ErrNotFound
		}
		if p.Quantity < d.Quantity {
			return shortage(p, d.Quantity)
		}
	}
	return nil
}

func shortage(p *entity.Product, required int) error {
	return &domain.InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Available:   p.Quantity,
		Required:    required,
	}
}
