package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const resendAPI = "https://api.resend.com/emails"

// Attachment is a file attached to an outbound email. Resend expects
// base64-encoded content.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type message struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer sends transactional email through the Resend HTTP API. With no API
// key configured it logs the message instead, which keeps local development
// and tests free of external calls.
type Mailer struct {
	apiKey string
	from   string
	client *http.Client
	logger *zap.Logger
}

// New creates a Mailer. apiKey may be empty for mock mode.
func New(apiKey, from string, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if from == "" {
		from = "TourZen <noreply@tourzen.vn>"
	}
	return &Mailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// AttachPDF wraps raw PDF bytes as an attachment.
func AttachPDF(filename string, data []byte) Attachment {
	return Attachment{
		Filename: filename,
		Content:  base64.StdEncoding.EncodeToString(data),
	}
}

// Send delivers one email. In mock mode it logs and returns nil.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string, atts ...Attachment) error {
	if m.apiKey == "" {
		m.logger.Info("mock email (no RESEND_API_KEY configured)",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Int("attachments", len(atts)))
		return nil
	}

	payload := message{
		From:        m.from,
		To:          to,
		Subject:     subject,
		HTML:        htmlBody,
		Attachments: atts,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
