package entity

import "time"

// Unidad y umbral por defecto al crear productos.
const (
	DefaultUnit        = "UN"
	DefaultMinQuantity = 10
)

// Product representa un producto del almacén. Quantity es el saldo en mano y solo
// cambia a través de movimientos o del despacho de expediciones.
type Product struct {
	ID          string
	Code        string // único
	Name        string
	Description string
	Category    string
	Unit        string
	Quantity    int
	MinQuantity int // umbral de reposición, informativo
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el saldo está en o por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}
