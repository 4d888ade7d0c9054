package notifier

import "github.com/m04kA/SMC-BayScheduler/internal/integrations/userservice"

// Recipient адресат уведомления
type Recipient struct {
	UserID   int64
	Phone    string
	FCMToken string
}

// Message содержимое уведомления
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// RecipientFromContact собирает адресата из контактов UserService
func RecipientFromContact(c *userservice.Contact) Recipient {
	return Recipient{
		UserID:   c.UserID,
		Phone:    c.Phone,
		FCMToken: c.FCMToken,
	}
}
