package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	defaultTimeout = 15 * time.Second

	// MaxMessageLength is the Bot API limit for a single text message, in runes.
	MaxMessageLength = 4096

	// SecretTokenHeader carries the secret registered with setWebhook.
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		apiURL:     fmt.Sprintf("%s/bot%s", defaultAPIBase, token),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram. Only message updates
// are requested.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secretToken string) error {
	req := SetWebhookRequest{
		URL:            webhookURL,
		SecretToken:    secretToken,
		AllowedUpdates: []string{"message"},
	}
	if err := b.call(ctx, "setWebhook", req); err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	return nil
}

// SendMessage sends a plain text message to a Telegram chat. Text longer
// than MaxMessageLength is split into consecutive messages.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range splitText(text, MaxMessageLength) {
		req := SendMessageRequest{ChatID: chatID, Text: chunk}
		if err := b.call(ctx, "sendMessage", req); err != nil {
			return fmt.Errorf("telegram sendMessage: %w", err)
		}
	}
	return nil
}

func (b *Bot) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("API error %d: failed to decode response: %w", resp.StatusCode, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, apiResp.Description)
	}
	return nil
}

// splitText cuts text into pieces of at most limit runes. Empty text
// yields a single empty piece so the API reports the error itself.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/limit+1)
	for len(runes) > 0 {
		n := min(limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
