package api

// TokenRequest представляет запрос на выпуск административного токена
type TokenRequest struct {
	Secret string `json:"secret"` // административный секрет узла
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// HealthResponse ответ проверки живости
type HealthResponse struct {
	Status string `json:"status"`
	NodeID string `json:"node_id"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
