package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const channelWhatsApp = "whatsapp"

// WhatsAppSender отправляет сообщения через HTTP шлюз WhatsApp
type WhatsAppSender struct {
	url        string
	token      string
	httpClient *http.Client
}

type whatsAppPayload struct {
	To   string            `json:"to"`
	Text string            `json:"text"`
	Data map[string]string `json:"data,omitempty"`
}

// NewWhatsAppSender создает отправителя WhatsApp
func NewWhatsAppSender(url, token string, timeout time.Duration) *WhatsAppSender {
	return &WhatsAppSender{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *WhatsAppSender) Channel() string {
	return channelWhatsApp
}

// Send отправляет текст сообщения на телефон получателя
func (s *WhatsAppSender) Send(ctx context.Context, recipient Recipient, msg Message) error {
	if recipient.Phone == "" {
		return ErrNoAddress
	}

	body, err := json.Marshal(whatsAppPayload{
		To:   recipient.Phone,
		Text: formatText(msg),
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrDeliveryFailed, resp.StatusCode, string(respBody))
	}

	return nil
}

func formatText(msg Message) string {
	if msg.Title == "" {
		return msg.Body
	}
	return msg.Title + "\n" + msg.Body
}
