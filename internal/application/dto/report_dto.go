package dto

import "time"

// UserStatsResponse conteo de usuarios por estado y rol.
type UserStatsResponse struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Admins   int `json:"admins"`
	Regular  int `json:"regular"`
}

// MovementSeriesResponse serie diaria de unidades de entrada y salida.
type MovementSeriesResponse struct {
	Labels  []string `json:"labels"`
	Entries []int    `json:"entries"`
	Exits   []int    `json:"exits"`
}

// CategoryStockResponse cantidad por categoría, para gráficos.
type CategoryStockResponse struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ActivityResponse un movimiento reciente en formato de actividad.
type ActivityResponse struct {
	Type     string    `json:"type"`
	Item     string    `json:"item"`
	Quantity int       `json:"quantity"`
	Date     time.Time `json:"date"`
}
