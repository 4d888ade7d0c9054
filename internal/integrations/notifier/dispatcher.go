package notifier

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout время на доставку одного асинхронного уведомления
const DefaultTimeout = 10 * time.Second

// Dispatcher рассылает уведомление по всем настроенным каналам
// Доставка не гарантируется: ошибки только логируются
type Dispatcher struct {
	enabled  bool
	senders  []Sender
	contacts ContactProvider
	metrics  Metrics
	log      Logger
	timeout  time.Duration
}

// NewDispatcher создает диспетчер. При enabled=false уведомления не отправляются
func NewDispatcher(enabled bool, contacts ContactProvider, metrics Metrics, log Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		enabled:  enabled,
		senders:  senders,
		contacts: contacts,
		metrics:  metrics,
		log:      log,
		timeout:  DefaultTimeout,
	}
}

// WithTimeout устанавливает таймаут асинхронной доставки
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Notify отправляет сообщение получателю
// Возвращает true, если хотя бы один канал принял сообщение
func (d *Dispatcher) Notify(ctx context.Context, recipient Recipient, msg Message) bool {
	if !d.enabled {
		d.log.Info("Notifications disabled, skipping '%s' for user_id=%d", msg.Title, recipient.UserID)
		return false
	}

	delivered := false
	for _, sender := range d.senders {
		err := sender.Send(ctx, recipient, msg)
		if errors.Is(err, ErrNoAddress) {
			continue
		}

		d.observe(sender.Channel(), err == nil)
		if err != nil {
			d.log.Warn("Notify: channel=%s, user_id=%d: %v", sender.Channel(), recipient.UserID, err)
			continue
		}
		delivered = true
	}

	if !delivered {
		d.log.Warn("Notify: message '%s' was not delivered to user_id=%d", msg.Title, recipient.UserID)
	}

	return delivered
}

// NotifyMember получает контакты участника из UserService и отправляет сообщение
func (d *Dispatcher) NotifyMember(ctx context.Context, userID int64, msg Message) bool {
	if !d.enabled {
		d.log.Info("Notifications disabled, skipping '%s' for user_id=%d", msg.Title, userID)
		return false
	}

	contact, err := d.contacts.GetContact(ctx, userID)
	if err != nil {
		d.log.Warn("NotifyMember: failed to get contact for user_id=%d: %v", userID, err)
		return false
	}

	return d.Notify(ctx, RecipientFromContact(contact), msg)
}

// NotifyMemberAsync отправляет сообщение в фоне, не блокируя вызывающего
func (d *Dispatcher) NotifyMemberAsync(userID int64, msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		d.NotifyMember(ctx, userID, msg)
	}()
}

func (d *Dispatcher) observe(channel string, ok bool) {
	if d.metrics != nil {
		d.metrics.ObserveNotification(channel, ok)
	}
}
