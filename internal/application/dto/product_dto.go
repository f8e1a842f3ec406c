package dto

import "time"

// CreateProductRequest entrada para crear un producto. Quantity es el saldo inicial.
type CreateProductRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required,max=100"`
	Unit        string `json:"unit" validate:"omitempty,max=20"`
	Quantity    int    `json:"quantity" validate:"min=0"`
	MinQuantity *int   `json:"min_quantity" validate:"omitempty,min=0"`
	Location    string `json:"location" validate:"omitempty,max=100"`
}

// UpdateProductRequest entrada para actualizar un producto. El saldo solo cambia por movimientos.
type UpdateProductRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1,max=50"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
	Unit        *string `json:"unit" validate:"omitempty,max=20"`
	MinQuantity *int    `json:"min_quantity" validate:"omitempty,min=0"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Location    string    `json:"location"`
	LowStock    bool      `json:"low_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockStatsResponse resumen del catálogo.
type StockStatsResponse struct {
	TotalProducts int `json:"total_products"`
	TotalItems    int `json:"total_items"`
	LowStock      int `json:"low_stock"`
}
