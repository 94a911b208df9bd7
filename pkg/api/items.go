package api

// CreateItemRequest представляет запрос на создание позиции
type CreateItemRequest struct {
	Name        string `json:"name"`        // название, обязательное
	Description string `json:"description"` // описание, обязательное
	Amount      int64  `json:"amount"`      // количество, обязательное
}

// UpdateItemRequest представляет частичное обновление позиции.
// nil поля не меняются.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
}
