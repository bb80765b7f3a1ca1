// Package notify delivers budget alerts by e-mail.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

const (
	defaultBaseURL     = "https://api.brevo.com/v3"
	defaultSenderName  = "Team Expense Manager"
	defaultSenderEmail = "noreply@team-expense-manager.com"
)

var ErrNoRecipients = errors.New("no recipients provided")

type Config struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	BaseURL     string
	Timeout     time.Duration
}

// New returns a Brevo notifier, or a log-only notifier when no API key is set.
func New(cfg Config) budget.Notifier {
	if cfg.APIKey == "" {
		return LogNotifier{}
	}

	return NewBrevo(cfg)
}

// Subject returns the e-mail subject for an alert.
func Subject(a budget.AlertContext) string {
	if a.Threshold == team.AlertFlag100 {
		return "Budget Exceeded: " + a.TeamName
	}

	return "Budget Warning: " + a.TeamName
}

func checkRecipients(recipients []string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	var invalid []string

	for _, r := range recipients {
		if !strings.Contains(r, "@") {
			invalid = append(invalid, r)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid email addresses: %s", strings.Join(invalid, ", "))
	}

	return nil
}

// LogNotifier writes alerts to the log instead of sending them.
type LogNotifier struct{}

func (LogNotifier) SendAlert(ctx context.Context, recipients []string, a budget.AlertContext) error {
	if err := checkRecipients(recipients); err != nil {
		return err
	}

	slog.InfoContext(ctx, "budget alert (email disabled)",
		"subject", Subject(a),
		"recipients", recipients,
		"percentage", a.Percentage,
	)

	return nil
}

// Brevo sends alerts through the Brevo transactional e-mail API.
type Brevo struct {
	client      *http.Client
	apiKey      string
	baseURL     string
	senderName  string
	senderEmail string
}

func NewBrevo(cfg Config) *Brevo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.SenderName == "" {
		cfg.SenderName = defaultSenderName
	}

	if cfg.SenderEmail == "" {
		cfg.SenderEmail = defaultSenderEmail
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Brevo{
		client:      &http.Client{Timeout: cfg.Timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
	}
}

type contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      contact   `json:"sender"`
	To          []contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
}

func (b *Brevo) SendAlert(ctx context.Context, recipients []string, a budget.AlertContext) error {
	if err := checkRecipients(recipients); err != nil {
		return err
	}

	html, err := renderAlert(a)
	if err != nil {
		return err
	}

	to := make([]contact, len(recipients))
	for i, r := range recipients {
		to[i] = contact{Email: r}
	}

	body, err := json.Marshal(sendRequest{
		Sender:      contact{Name: b.senderName, Email: b.senderEmail},
		To:          to,
		Subject:     Subject(a),
		HTMLContent: html,
	})
	if err != nil {
		return fmt.Errorf("encoding email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating email request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}

	var out struct {
		MessageID string `json:"messageId"`
	}

	_ = json.NewDecoder(resp.Body).Decode(&out)

	slog.DebugContext(ctx, "budget alert email accepted", "message_id", out.MessageID)

	return nil
}

func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 1024))

	var e struct {
		Message string `json:"message"`
	}

	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return e.Message
	}

	return strings.TrimSpace(string(raw))
}

var alertTemplate = template.Must(template.New("alert").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2 style="color: {{.Color}};">{{.Subject}}</h2>
  <div style="margin: 20px 0;">
    <p><strong>Team:</strong> {{.TeamName}}</p>
    <p><strong>Budget:</strong> {{.Budget}}</p>
    <p><strong>Spent:</strong> {{.Spent}} ({{.Percentage}}%)</p>
    <p style="color: {{.Color}}; font-weight: bold;">{{.Headline}}</p>
  </div>
</div>`))

func renderAlert(a budget.AlertContext) (string, error) {
	data := struct {
		Subject    string
		TeamName   string
		Budget     string
		Spent      string
		Percentage int
		Color      template.CSS
		Headline   string
	}{
		Subject:    Subject(a),
		TeamName:   a.TeamName,
		Budget:     money.Format(a.Budget),
		Spent:      money.Format(a.Spent),
		Percentage: a.Percentage,
		Color:      "#f59e0b",
		Headline:   "Approaching Budget Limit",
	}

	if a.Threshold == team.AlertFlag100 {
		data.Color = "#dc2626"
		data.Headline = "Budget Exceeded!"
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering alert email: %w", err)
	}

	return buf.String(), nil
}
