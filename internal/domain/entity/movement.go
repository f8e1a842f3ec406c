package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeEntrada = "entrada" // suma al saldo
	MovementTypeSaida   = "saida"   // resta del saldo, rechazada si no alcanza
	MovementTypeAjuste  = "ajuste"  // fija el saldo en un valor absoluto
)

// IsValidMovementType reporta si t es uno de los tipos conocidos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSaida, MovementTypeAjuste:
		return true
	}
	return false
}

// Movement es un registro inmutable del libro de stock.
// PreviousQuantity guarda el saldo anterior para poder revertir ajustes.
type Movement struct {
	ID               string
	ProductID        string
	Type             string
	Quantity         int
	PreviousQuantity int
	UserID           string
	Notes            string
	CreatedAt        time.Time
	ProductName      string // solo lectura, poblado en consultas
}
