package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Mailer delivers transactional email. Implementations are best-effort;
// callers log and continue on failure.
type Mailer interface {
	Send(to, subject, body string) error
}

// HTTPMailer posts messages to an email provider's JSON API.
type HTTPMailer struct {
	URL    string
	APIKey string
	From   string
	Client *http.Client
}

func NewHTTP(url, apiKey, from string) *HTTPMailer {
	return &HTTPMailer{
		URL:    url,
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *HTTPMailer) Send(to, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"from":    m.From,
		"to":      to,
		"subject": subject,
		"html":    body,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, m.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned %d", resp.StatusCode)
	}
	return nil
}

// ConsoleMailer logs messages instead of delivering them. Used when no
// provider key is configured and in tests.
type ConsoleMailer struct{}

func NewConsole() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (c *ConsoleMailer) Send(to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("mail (console)")
	return nil
}

// ── Transactional templates ─────────────────────────────────────────────────

func VerificationEmail(name, code string) (subject, body string) {
	subject = "Verify your Tiffin Market account"
	body = fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>", name, code)
	return
}

func PasswordResetEmail(code string) (subject, body string) {
	subject = "Reset your Tiffin Market password"
	body = fmt.Sprintf("<p>Your password reset code is <b>%s</b>. It expires in 10 minutes and can be used once.</p>", code)
	return
}

func OrderDeliveredEmail(name, orderNumber string) (subject, body string) {
	subject = "Your tiffin has been delivered"
	body = fmt.Sprintf("<p>Hi %s,</p><p>Order <b>%s</b> was delivered. Enjoy your meal, and do rate your order!</p>", name, orderNumber)
	return
}

func KitchenStatusEmail(kitchenName, status, remarks string) (subject, body string) {
	subject = fmt.Sprintf("Your kitchen %q is now %s", kitchenName, status)
	body = fmt.Sprintf("<p>Your kitchen <b>%s</b> has been marked <b>%s</b>.</p>", kitchenName, status)
	if remarks != "" {
		body += fmt.Sprintf("<p>Remarks: %s</p>", remarks)
	}
	return
}

func KitchenSubmittedEmail(kitchenName, sellerEmail string) (subject, body string) {
	subject = "New kitchen pending approval"
	body = fmt.Sprintf("<p>Kitchen <b>%s</b> (seller %s) is awaiting review.</p>", kitchenName, sellerEmail)
	return
}
