package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/payfuse/payfuse/infra/config"
)

const telegramAPIURL = "https://api.telegram.org"

// Telegram posts operational messages to a Telegram chat. Messages use
// HTML parse mode so callers can include <b> and <code> markup.
type Telegram struct {
	clientID    string
	clientToken string
	chatID      string
	threadID    string
	apiURL      string
	client      *http.Client
}

type sendMessageRequest struct {
	ParseMode       string `json:"parse_mode"`
	ChatID          string `json:"chat_id"`
	MessageThreadID string `json:"message_thread_id,omitempty"`
	Text            string `json:"text"`
}

// NewTelegram creates a notifier from configuration. Returns nil when the
// notification channel is not configured; callers treat a nil notifier as
// disabled.
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	if cfg.ClientID == "" || cfg.ClientToken == "" || cfg.ChatID == "" {
		return nil
	}
	return &Telegram{
		clientID:    cfg.ClientID,
		clientToken: cfg.ClientToken,
		chatID:      cfg.ChatID,
		threadID:    cfg.ThreadID,
		apiURL:      telegramAPIURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts a message to the configured chat
func (t *Telegram) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(sendMessageRequest{
		ParseMode:       "HTML",
		ChatID:          t.chatID,
		MessageThreadID: t.threadID,
		Text:            message,
	})
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s:%s/sendMessage", t.apiURL, t.clientID, t.clientToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}
