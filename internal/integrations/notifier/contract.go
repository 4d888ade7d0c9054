package notifier

import (
	"context"

	"github.com/m04kA/SMC-BayScheduler/internal/integrations/userservice"
)

// Sender канал доставки уведомлений
type Sender interface {
	Channel() string
	Send(ctx context.Context, recipient Recipient, msg Message) error
}

// ContactProvider источник контактов участника (UserService)
type ContactProvider interface {
	GetContact(ctx context.Context, userID int64) (*userservice.Contact, error)
}

// Metrics интерфейс для метрик уведомлений
type Metrics interface {
	ObserveNotification(channel string, ok bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
