package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/model"
	"parking-reservation-backend/internal/store"
)

const newLotsTemplate = `<html>
<body style="font-family: sans-serif;">
<h3>Check out our new parking lots!</h3>
<p>Hi {{.Username}},</p>
<p>We've added new parking locations for your convenience:</p>
<ul>
{{range .NewLots}}<li><strong>{{.PrimeLocationName}}</strong> (Capacity: {{.MaximumNumberOfSpots}})</li>
{{end}}</ul>
<p>Need a place to park soon? <a href="{{.DashboardURL}}">Book a Spot Now</a></p>
</body>
</html>`

const inactiveTemplate = `<html>
<body style="font-family: sans-serif;">
<h3>Need a Parking Spot?</h3>
<p>Hi {{.Username}},</p>
<p>We've noticed you haven't booked a parking spot with us recently. If you need a place to park, we're here to help!</p>
<p><a href="{{.DashboardURL}}">Book a Spot Now</a></p>
</body>
</html>`

// DailyReminder notifies users once a day. Two independent batches: every
// non-admin user hears about lots created in the last 24 hours, and users
// with no recent reservation get a re-engagement nudge. Both batches may
// fire on the same run.
type DailyReminder struct {
	Store        store.Store
	Mail         mailer.Sender
	DashboardURL string
	Inactivity   time.Duration
}

// Name implements Job.
func (j *DailyReminder) Name() string { return "daily_reminder" }

// Run implements Job.
func (j *DailyReminder) Run(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	var sent int

	newLots, err := j.Store.LotsCreatedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("query new lots: %w", err)
	}
	if len(newLots) > 0 {
		users, err := j.Store.ListNonAdminUsers(ctx)
		if err != nil {
			return "", fmt.Errorf("query users: %w", err)
		}
		sent += j.sendBatch(users, "New Parking Lots Available!", newLotsTemplate, newLots)
	}

	inactivity := j.Inactivity
	if inactivity <= 0 {
		inactivity = 3 * 24 * time.Hour
	}
	inactive, err := j.Store.UsersInactiveSince(ctx, now.Add(-inactivity))
	if err != nil {
		return "", fmt.Errorf("query inactive users: %w", err)
	}
	sent += j.sendBatch(inactive, "We Miss You! Need a Parking Spot?", inactiveTemplate, nil)

	if sent == 0 {
		return "No reminders sent.", nil
	}
	return fmt.Sprintf("Task completed. Messages sent to %d users.", sent), nil
}

// sendBatch mails one template to a list of users. A single recipient
// failing is logged and does not abort the rest of the batch.
func (j *DailyReminder) sendBatch(users []model.User, subject, tmplStr string, newLots []model.ParkingLot) int {
	tmpl, err := template.New("reminder").Parse(tmplStr)
	if err != nil {
		log.Printf("daily reminder template parse failed: %v", err)
		return 0
	}

	var sent int
	for _, user := range users {
		var body bytes.Buffer
		err := tmpl.Execute(&body, struct {
			Username     string
			NewLots      []model.ParkingLot
			DashboardURL string
		}{user.Username, newLots, j.DashboardURL})
		if err != nil {
			log.Printf("daily reminder render failed for %s: %v", user.Email, err)
			continue
		}

		msg := mailer.Message{To: user.Email, Subject: subject, Body: body.String(), HTML: true}
		if err := j.Mail.Send(msg); err != nil {
			log.Printf("daily reminder send failed for %s: %v", user.Email, err)
			continue
		}
		sent++
	}
	return sent
}
