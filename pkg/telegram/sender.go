package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/tgcast/pkg/domain"
	"github.com/dskvich/tgcast/pkg/logger"
)

const (
	sendMessageMethod = "sendMessage"
	requestTimeout    = 10 * time.Second
	maxResponseBytes  = 1 << 20
)

type sendMessageRequest struct {
	ChatID    string           `json:"chat_id"`
	Text      string           `json:"text"`
	ParseMode domain.ParseMode `json:"parse_mode"`
}

// TransportError is returned when the request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "sending request: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned when the response body is not a Bot API JSON envelope.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response %d %s: %v", e.StatusCode, http.StatusText(e.StatusCode), e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

type Option func(*Sender)

// WithEndpoint overrides the printf style Bot API endpoint (token, method).
func WithEndpoint(endpoint string) Option {
	return func(s *Sender) { s.endpoint = endpoint }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) { s.http = c }
}

// Sender posts sendMessage requests to the Bot API, one call per destination.
type Sender struct {
	token    string
	endpoint string
	http     *http.Client
}

func NewSender(token string, opts ...Option) *Sender {
	s := &Sender{
		token:    token,
		endpoint: tgbotapi.APIEndpoint,
		http:     &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers text to dest. The Bot API "ok" field decides the outcome, not the HTTP status.
// A rejected message is reported as tgbotapi.Error.
func (s *Sender) Send(ctx context.Context, dest domain.Destination, text string) error {
	ctx = logger.ContextWithDestination(ctx, dest.String())

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    dest.String(),
		Text:      text,
		ParseMode: domain.ParseMode(tgbotapi.ModeHTML),
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf(s.endpoint, s.token, sendMessageMethod), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	slog.DebugContext(ctx, "posting message", "method", sendMessageMethod, "bytes", len(payload))

	resp, err := s.http.Do(req)
	if err != nil {
		return &TransportError{Err: redact(err)}
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			slog.ErrorContext(ctx, "closing body", logger.Err(closeErr))
		}
	}(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	var apiResp tgbotapi.APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}

	slog.DebugContext(ctx, "bot api responded", "status", resp.StatusCode, "ok", apiResp.Ok)

	if !apiResp.Ok {
		desc := apiResp.Description
		if desc == "" {
			desc = "unknown error"
		}
		return &tgbotapi.Error{Code: apiResp.ErrorCode, Message: desc}
	}
	return nil
}

// APIErrorCode renders the provider error code, "?" when the API omitted it.
func APIErrorCode(err *tgbotapi.Error) string {
	if err.Code == 0 {
		return "?"
	}
	return fmt.Sprint(err.Code)
}

// redact drops the request URL from net/http errors, it carries the bot token.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
