package userservice

// Contact контакты участника для уведомлений
type Contact struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`     // номер для WhatsApp в формате E.164
	FCMToken string `json:"fcm_token"` // токен устройства Firebase Cloud Messaging
}

// Vehicle модель автомобиля участника
type Vehicle struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
