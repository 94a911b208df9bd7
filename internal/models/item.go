package models

import "time"

// Item представляет товарную позицию на складе
type Item struct {
	ID          string    `json:"id"`          // UUID позиции
	Name        string    `json:"name"`        // название
	Description string    `json:"description"` // описание
	Amount      int64     `json:"amount"`      // количество на складе
	CreatedAt   time.Time `json:"created_at"`  // время создания
	UpdatedAt   time.Time `json:"updated_at"`  // время последнего обновления
}
