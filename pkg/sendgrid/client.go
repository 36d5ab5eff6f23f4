package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/logger"
)

const (
	defaultBaseURL = "https://api.sendgrid.com"
	mailSendPath   = "/v3/mail/send"
	requestTimeout = 10 * time.Second
)

var (
	errAPIKeyRequired = errors.New("sendgrid api key is required")
	errFromRequired   = errors.New("sendgrid from address is required")
	errLoggerRequired = errors.New("sendgrid logger is required")
)

// Message is a single outbound email.
type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Client wraps the Sendgrid v3 mail-send API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	from       string
	baseURL    string
	logger     *logger.Logger
}

// NewClient validates the Sendgrid credentials and builds a client.
func NewClient(cfg config.SendgridConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	from := strings.TrimSpace(cfg.DefaultFrom)
	if from == "" {
		return nil, errFromRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		from:       from,
		baseURL:    baseURL,
		logger:     logg,
	}, nil
}

// Send delivers a single message. A 2xx response from Sendgrid counts as
// accepted; anything else returns an error with the response body attached.
func (c *Client) Send(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return errors.New("recipient address is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return errors.New("subject is required")
	}

	body, err := json.Marshal(c.buildPayload(msg))
	if err != nil {
		return fmt.Errorf("encode sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mailSendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		logCtx := c.logger.WithFields(ctx, map[string]any{
			"to":      to,
			"subject": msg.Subject,
			"status":  resp.StatusCode,
		})
		c.logger.Info(logCtx, "email accepted by sendgrid")
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}

type mailPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *Client) buildPayload(msg Message) mailPayload {
	content := []mailContent{}
	if msg.PlainText != "" {
		content = append(content, mailContent{Type: "text/plain", Value: msg.PlainText})
	}
	if msg.HTML != "" {
		content = append(content, mailContent{Type: "text/html", Value: msg.HTML})
	}
	if len(content) == 0 {
		content = append(content, mailContent{Type: "text/plain", Value: ""})
	}
	return mailPayload{
		Personalizations: []personalization{
			{To: []emailAddress{{Email: strings.TrimSpace(msg.To), Name: msg.ToName}}},
		},
		From:    emailAddress{Email: c.from},
		Subject: msg.Subject,
		Content: content,
	}
}
