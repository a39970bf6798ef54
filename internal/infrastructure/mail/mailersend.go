// Package mail sends transactional email through MailerSend.
package mail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

const sendTimeout = 10 * time.Second

// Mailer implements ports.Mailer on the MailerSend API.
type Mailer struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	return &Mailer{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}
}

// SendWelcome greets a freshly signed-up user.
func (m *Mailer) SendWelcome(ctx context.Context, to *domain.User, url string) error {
	text := fmt.Sprintf("Welcome to the Natours family, %s!\nVisit your account page: %s", to.Name, url)
	html := fmt.Sprintf(`<p>Welcome to the Natours family, <b>%s</b>!</p><p><a href="%s">Your account</a></p>`, to.Name, url)
	return m.send(ctx, to, "Welcome to the Natours Family!", text, html)
}

// SendPasswordReset delivers the plaintext reset token link. The token is
// valid for ten minutes and is never persisted in plaintext.
func (m *Mailer) SendPasswordReset(ctx context.Context, to *domain.User, resetURL string) error {
	text := fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password to: %s\nIf you didn't, please ignore this email.", resetURL)
	html := fmt.Sprintf(`<p>Forgot your password? <a href="%s">Reset it here</a> (valid for 10 minutes).</p>`, resetURL)
	return m.send(ctx, to, "Your password reset token (valid for only 10 minutes)", text, html)
}

func (m *Mailer) send(ctx context.Context, to *domain.User, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: to.Name, Email: to.Email}})
	msg.SetSubject(subject)
	msg.SetText(text)
	msg.SetHTML(html)

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
