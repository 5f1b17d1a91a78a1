package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flight-monitor-service/internal/contextkeys"
	"flight-monitor-service/internal/core/port"
)

// Лимит Telegram на одно сообщение — 4096 символов; режем с запасом.
const maxMessageLength = 4000

const defaultAPIBaseURL = "https://api.telegram.org"

// Notifier доставляет отчеты в Telegram через Bot API.
// Длинные сообщения режутся на части по границам строк и отправляются
// последовательно, с паузой между частями.
type Notifier struct {
	apiBaseURL string
	botToken   string
	chatID     string
	httpClient *http.Client
	pacer      port.PacerPort
}

func NewNotifier(botToken, chatID string, pacer port.PacerPort) *Notifier {
	return &Notifier{
		apiBaseURL: defaultAPIBaseURL,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		pacer:      pacer,
	}
}

// NewNotifierWithBaseURL нужен тестам, чтобы подменить Bot API на httptest-сервер.
func NewNotifierWithBaseURL(baseURL, botToken, chatID string, pacer port.PacerPort) *Notifier {
	n := NewNotifier(botToken, chatID, pacer)
	n.apiBaseURL = baseURL
	return n
}

// Send отправляет сообщение, при необходимости по частям.
// Успех — только если транспорт принял каждую часть; упавшая часть
// логируется и не ретраится.
func (n *Notifier) Send(ctx context.Context, message string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TelegramNotifier",
	})

	parts := SplitMessage(message, maxMessageLength)

	failed := 0
	for i, part := range parts {
		if len(parts) > 1 {
			logger.Debug("Sending message part", port.Fields{"part": fmt.Sprintf("%d/%d", i+1, len(parts))})
		}

		if err := n.sendOne(ctx, part); err != nil {
			logger.Error("Failed to send message part", err, port.Fields{"part": i + 1})
			failed++
		}

		// Пауза между частями, чтобы не упереться в лимиты Bot API.
		if i < len(parts)-1 {
			n.pacer.Pause(ctx)
		}
	}

	if failed > 0 {
		return fmt.Errorf("telegram notifier: %d of %d message parts failed to send", failed, len(parts))
	}

	logger.Info("Message delivered to Telegram", port.Fields{"parts": len(parts)})
	return nil
}

func (n *Notifier) sendOne(ctx context.Context, text string) error {
	sendURL := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBaseURL, n.botToken)

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

// SplitMessage режет текст на части не длиннее maxLen, строго по границам
// строк. Склейка частей через "\n" воспроизводит исходный текст байт в байт.
// Строка длиннее maxLen не режется и уходит отдельной частью как есть.
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	lines := strings.Split(text, "\n")

	var parts []string
	start := 0
	currentLen := -1 // длина lines[start:i], склеенных через "\n"; -1 — часть пуста

	for i, line := range lines {
		var newLen int
		if currentLen < 0 {
			newLen = len(line)
		} else {
			newLen = currentLen + 1 + len(line)
		}

		if currentLen >= 0 && newLen > maxLen {
			parts = append(parts, strings.Join(lines[start:i], "\n"))
			start = i
			currentLen = len(line)
		} else {
			currentLen = newLen
		}
	}
	parts = append(parts, strings.Join(lines[start:], "\n"))

	return parts
}
