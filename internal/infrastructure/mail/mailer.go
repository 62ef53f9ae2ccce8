// Package mail delivers account notices through an HTTP mail API
// (Resend-style JSON endpoint). Bodies are rendered from embedded HTML
// templates.
package mail

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const requestTimeout = 5 * time.Second

// Mailer implements ports.Notifier against an HTTP mail API. Every delivery
// failure wraps domain.ErrNotifyFailed so callers can classify it without
// caring about the transport.
type Mailer struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

func NewMailer(baseURL, apiKey, from string) *Mailer {
	return &Mailer{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (m *Mailer) SendRegistrationNotice(ctx context.Context, username, email string) error {
	body, err := render("registration.html", map[string]string{
		"Username": username,
		"Email":    email,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, email, "Registration Successful", body)
}

func (m *Mailer) SendPasswordResetNotice(ctx context.Context, email string) error {
	body, err := render("password_reset.html", map[string]string{
		"Email": email,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, email, "Password Reset", body)
}

// SendStartupNotice mails the configured From address when the server boots.
func (m *Mailer) SendStartupNotice(ctx context.Context) error {
	body, err := render("startup.html", map[string]string{
		"StartedAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return m.send(ctx, m.from, "Server Startup Notification", body)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", domain.ErrNotifyFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrNotifyFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotifyFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: mail API returned %d", domain.ErrNotifyFailed, resp.StatusCode)
	}
	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: render %s: %v", domain.ErrNotifyFailed, name, err)
	}
	return buf.String(), nil
}
