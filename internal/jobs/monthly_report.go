package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/store"
)

const monthlyReportTemplate = `<html>
<body>
<h2>Your Monthly Parking Report for {{.MonthName}}</h2>
<p>Hi {{.Username}}, here's your activity summary:</p>
<ul>
<li><strong>Total Bookings:</strong> {{.TotalBookings}}</li>
<li><strong>Total Amount Spent:</strong> ${{printf "%.2f" .TotalSpent}}</li>
<li><strong>Most Used Parking Lot:</strong> {{.MostUsedLot}}</li>
<li><strong>Peak Booking Day:</strong> {{.PeakWeekday}}</li>
<li><strong>Average Stay:</strong> {{.AvgStay}}</li>
</ul>
<p>Thank you for using our service!</p>
</body>
</html>`

// MonthlyReport mails every non-admin user with activity in the prior
// calendar month a rendered report as an attached document.
type MonthlyReport struct {
	Store store.Store
	Mail  mailer.Sender

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Name implements Job.
func (j *MonthlyReport) Name() string { return "monthly_report" }

// lastMonthBounds returns the first and last instants of the previous
// calendar month relative to now.
func lastMonthBounds(now time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfThisMonth.Add(-time.Nanosecond)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Run implements Job.
func (j *MonthlyReport) Run(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	if j.Now != nil {
		now = j.Now().UTC()
	}
	start, end := lastMonthBounds(now)
	monthName := start.Format("January 2006")

	users, err := j.Store.ListNonAdminUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("query users: %w", err)
	}

	tmpl, err := template.New("report").Parse(monthlyReportTemplate)
	if err != nil {
		return "", fmt.Errorf("report template: %w", err)
	}

	var sent int
	for _, user := range users {
		activity, err := j.Store.MonthlyActivity(ctx, user.ID, start, end)
		if err != nil {
			log.Printf("monthly report query failed for %s: %v", user.Email, err)
			continue
		}
		if activity == nil {
			continue // no reservations last month
		}

		var report bytes.Buffer
		err = tmpl.Execute(&report, struct {
			Username      string
			MonthName     string
			TotalBookings int64
			TotalSpent    float64
			MostUsedLot   string
			PeakWeekday   string
			AvgStay       time.Duration
		}{user.Username, monthName, activity.TotalBookings, activity.TotalSpent,
			activity.MostUsedLot, activity.PeakWeekday, activity.AvgStay.Round(time.Minute)})
		if err != nil {
			log.Printf("monthly report render failed for %s: %v", user.Email, err)
			continue
		}

		msg := mailer.Message{
			To:                 user.Email,
			Subject:            fmt.Sprintf("Your Parking Report for %s", monthName),
			Body:               fmt.Sprintf("Hi %s,\n\nYour monthly parking report is attached.", user.Username),
			AttachmentData:     report.Bytes(),
			AttachmentFilename: fmt.Sprintf("parking_report_%s.html", start.Format("2006_01")),
		}
		if err := j.Mail.Send(msg); err != nil {
			log.Printf("monthly report send failed for %s: %v", user.Email, err)
			continue
		}
		sent++
	}

	if sent == 0 {
		return "No reports sent.", nil
	}
	return fmt.Sprintf("Monthly reports sent to %d users.", sent), nil
}
