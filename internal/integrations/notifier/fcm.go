package notifier

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const channelFCM = "fcm"

// messagingClient часть *messaging.Client, которая нужна отправителю
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender отправляет push-уведомления через Firebase Cloud Messaging
type FCMSender struct {
	client messagingClient
}

// NewFCMSender инициализирует Firebase App по файлу сервисного аккаунта
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: firebase app: %v", ErrInternal, err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: firebase messaging: %v", ErrInternal, err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Channel() string {
	return channelFCM
}

// Send отправляет push на устройство получателя
func (s *FCMSender) Send(ctx context.Context, recipient Recipient, msg Message) error {
	if recipient.FCMToken == "" {
		return ErrNoAddress
	}

	_, err := s.client.Send(ctx, &messaging.Message{
		Token: recipient.FCMToken,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}
