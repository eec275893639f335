package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/store"
)

const welcomeTemplate = `<html>
<body style="font-family: sans-serif;">
<h3>Welcome, {{.FullName}}!</h3>
<p>Thank you for joining our platform. We're excited to help you find the best parking spots with ease.</p>
<p>You can start by searching for parking lots or booking a spot right away.</p>
<p>Best regards,<br>The Parking Team</p>
</body>
</html>`

// WelcomeEmail sends an onboarding email to a newly registered user. It is
// enqueued from the registration flow; a failure here never rolls back the
// registration.
type WelcomeEmail struct {
	Store store.Store
	Mail  mailer.Sender
	Email string
}

// Name implements Job.
func (j *WelcomeEmail) Name() string { return "welcome_email" }

// Run implements Job.
func (j *WelcomeEmail) Run(ctx context.Context) (string, error) {
	user, err := j.Store.GetUserByEmail(ctx, j.Email)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", j.Email, err)
	}

	tmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return "", fmt.Errorf("welcome template: %w", err)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, user); err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Welcome to Our Parking App!",
		Body:    body.String(),
		HTML:    true,
	}
	if err := j.Mail.Send(msg); err != nil {
		return "", fmt.Errorf("send welcome email: %w", err)
	}
	return fmt.Sprintf("Welcome email sent to %s.", user.Email), nil
}
