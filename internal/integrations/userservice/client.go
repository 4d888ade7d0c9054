package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetContact получает контакты участника (телефон и FCM токен)
func (c *Client) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	url := fmt.Sprintf("%s/internal/users/%d/contact", c.baseURL, userID)

	var contact Contact
	if err := c.get(ctx, url, ErrUserNotFound, &contact); err != nil {
		return nil, err
	}

	return &contact, nil
}

// GetVehicle получает автомобиль участника
// ErrVehicleNotFound - автомобиль не существует или принадлежит другому участнику
func (c *Client) GetVehicle(ctx context.Context, userID, vehicleID int64) (*Vehicle, error) {
	url := fmt.Sprintf("%s/internal/users/%d/vehicles/%d", c.baseURL, userID, vehicleID)

	var vehicle Vehicle
	if err := c.get(ctx, url, ErrVehicleNotFound, &vehicle); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

// GetVehicleWithGracefulDegradation получает автомобиль участника с graceful degradation
// При недоступности UserService возвращает ErrServiceDegraded, что позволяет записать участника без проверки автомобиля
func (c *Client) GetVehicleWithGracefulDegradation(ctx context.Context, userID, vehicleID int64) (*Vehicle, error) {
	vehicle, err := c.GetVehicle(ctx, userID, vehicleID)
	if err != nil {
		// Бизнес-ошибку пробрасываем как есть
		if errors.Is(err, ErrVehicleNotFound) {
			c.log.Info("Vehicle id=%d not found for user_id=%d", vehicleID, userID)
			return nil, err
		}

		c.log.Error("UserService unavailable, applying graceful degradation for user_id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	return vehicle, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
