package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

// TelegramDispatcher sends a formatted message to a per-user chat through
// the Telegram Bot API. It never retries within a dispatch; the engine's
// dedup policy decides whether a task gets another attempt.
type TelegramDispatcher struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

func NewTelegramDispatcher(token, chatID string) *TelegramDispatcher {
	return &TelegramDispatcher{
		token:   strings.TrimSpace(token),
		chatID:  strings.TrimSpace(chatID),
		baseURL: defaultTelegramBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the dispatcher at an alternate API host. Used by tests.
func (d *TelegramDispatcher) WithBaseURL(baseURL string) *TelegramDispatcher {
	d.baseURL = strings.TrimRight(baseURL, "/")
	return d
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramSendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (d *TelegramDispatcher) Dispatch(ctx context.Context, n Notification) error {
	if d.chatID == "" {
		return ErrMissingDestination
	}
	if d.token == "" {
		return &TransportError{Channel: "telegram", Err: errors.New("bot token not configured")}
	}

	payload, err := json.Marshal(telegramSendRequest{
		ChatID:    d.chatID,
		Text:      n.Body,
		ParseMode: "Markdown",
	})
	if err != nil {
		return &TransportError{Channel: "telegram", Err: err}
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", d.baseURL, d.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Channel: "telegram", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return &TransportError{Channel: "telegram", Err: err}
	}
	defer resp.Body.Close()

	var decoded telegramSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return &TransportError{Channel: "telegram", Err: err}
	}
	if !decoded.OK {
		desc := decoded.Description
		if desc == "" {
			desc = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return &TransportError{Channel: "telegram", Err: fmt.Errorf("telegram api error: %s", desc)}
	}
	return nil
}
