package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`              // email пользователя
	Password string `json:"password"`           // пароль в открытом виде (хешируется на сервере)
	Username string `json:"username,omitempty"` // опциональный username
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде
}

// RefreshRequest представляет запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"` // действующий refresh token
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// MessageResponse представляет ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"` // человекочитаемое сообщение
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
