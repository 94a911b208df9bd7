package api

// CreateUserRequest представляет запрос на прямое создание пользователя
// (административный CRUD, в отличие от /auth/register не выдает токены)
type CreateUserRequest struct {
	Email    string `json:"email"`              // email пользователя
	Password string `json:"password"`           // пароль в открытом виде
	Username string `json:"username,omitempty"` // опциональный username
}

// UpdateUserRequest представляет частичное обновление пользователя.
// nil поля не меняются; Password при наличии перехешируется.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}
