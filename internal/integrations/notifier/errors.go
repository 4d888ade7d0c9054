package notifier

import "errors"

var (
	// ErrNoAddress у получателя нет адреса для этого канала
	ErrNoAddress = errors.New("notifier: recipient has no address for channel")

	// ErrDeliveryFailed канал отказал в доставке
	ErrDeliveryFailed = errors.New("notifier: delivery failed")

	// ErrInternal внутренняя ошибка отправки
	ErrInternal = errors.New("notifier: internal error")
)
