package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("userservice client: user not found")

	// ErrVehicleNotFound возвращается, когда у пользователя нет такого автомобиля
	ErrVehicleNotFound = errors.New("userservice client: vehicle not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что UserService недоступен и проверку можно пропустить
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
