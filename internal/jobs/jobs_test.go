package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parking-reservation-backend/internal/db"
	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/model"
	"parking-reservation-backend/internal/store"
)

// recorderSender captures outbound mail instead of delivering it. Addresses
// in failFor simulate a bouncing recipient.
type recorderSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	failFor  map[string]bool
}

func (r *recorderSender) Send(msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[msg.To] {
		return fmt.Errorf("mailbox unavailable: %s", msg.To)
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recorderSender) sent() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.messages...)
}

func newJobStore(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB), gormDB
}

func seedJobUser(t *testing.T, s store.Store, username string) *model.User {
	t.Helper()
	user := &model.User{
		ID:       uuid.NewString(),
		Username: username,
		FullName: "Job Test User",
		Email:    username + "@example.com",
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedJobLot(t *testing.T, s store.Store) (*model.ParkingLot, model.ParkingSpot) {
	t.Helper()
	lot, err := s.CreateLot(context.Background(), store.LotSpec{
		PrimeLocationName:    "Harbor Front",
		City:                 "Chennai",
		State:                "TN",
		District:             "North",
		PinCode:              "600013",
		PricePerHour:         30,
		MaximumNumberOfSpots: 2,
	})
	require.NoError(t, err)

	var spot model.ParkingSpot
	require.NoError(t, s.DB().Where("lot_id = ?", lot.ID).Order("spot_number").First(&spot).Error)
	return lot, spot
}

func TestDailyReminderBothBatches(t *testing.T) {
	s, _ := newJobStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "admin@example.com", "supersecret"))
	seedJobUser(t, s, "reminder-a")
	seedJobUser(t, s, "reminder-b")
	seedJobLot(t, s)

	mail := &recorderSender{}
	job := &DailyReminder{Store: s, Mail: mail, DashboardURL: "https://parking.example.com"}

	result, err := job.Run(ctx)
	require.NoError(t, err)

	// Both users hear about the new lot and, having no reservations, both
	// also get the re-engagement nudge.
	assert.Equal(t, "Task completed. Messages sent to 4 users.", result)

	var newLots, nudges int
	for _, msg := range mail.sent() {
		switch msg.Subject {
		case "New Parking Lots Available!":
			newLots++
			assert.Contains(t, msg.Body, "Harbor Front")
			assert.Contains(t, msg.Body, "https://parking.example.com")
			assert.True(t, msg.HTML)
		case "We Miss You! Need a Parking Spot?":
			nudges++
		}
	}
	assert.Equal(t, 2, newLots)
	assert.Equal(t, 2, nudges)

	// The admin account is never mailed.
	for _, msg := range mail.sent() {
		assert.NotEqual(t, "admin@example.com", msg.To)
	}
}

func TestDailyReminderNothingToSend(t *testing.T) {
	s, _ := newJobStore(t)
	require.NoError(t, s.EnsureAdmin(context.Background(), "admin@example.com", "supersecret"))

	mail := &recorderSender{}
	job := &DailyReminder{Store: s, Mail: mail}

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No reminders sent.", result)
	assert.Empty(t, mail.sent())
}

func TestDailyReminderToleratesBouncingRecipient(t *testing.T) {
	s, _ := newJobStore(t)
	ctx := context.Background()

	seedJobUser(t, s, "reminder-good")
	seedJobUser(t, s, "reminder-bouncing")

	mail := &recorderSender{failFor: map[string]bool{"reminder-bouncing@example.com": true}}
	job := &DailyReminder{Store: s, Mail: mail}

	result, err := job.Run(ctx)
	require.NoError(t, err, "one bounce must not fail the whole batch")
	assert.Equal(t, "Task completed. Messages sent to 1 users.", result)
}

func TestMonthlyReport(t *testing.T) {
	s, gormDB := newJobStore(t)
	ctx := context.Background()

	active := seedJobUser(t, s, "report-active")
	seedJobUser(t, s, "report-idle")
	_, spot := seedJobLot(t, s)

	reservation, err := s.BookSpot(ctx, active.ID, store.BookingRequest{
		SpotID: spot.ID, VehicleNumber: "TN20AA0001",
	})
	require.NoError(t, err)
	_, err = s.ReleaseReservation(ctx, active.ID, reservation.ID, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)

	// Move the activity into July 2026, the month under report.
	july := time.Date(2026, time.July, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, gormDB.Model(&model.Reservation{}).
		Where("id = ?", reservation.ID).
		Updates(map[string]any{
			"parking_timestamp": july,
			"leaving_timestamp": july.Add(2 * time.Hour),
		}).Error)

	mail := &recorderSender{}
	job := &MonthlyReport{
		Store: s,
		Mail:  mail,
		Now:   func() time.Time { return time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC) },
	}

	result, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Monthly reports sent to 1 users.", result)

	sent := mail.sent()
	require.Len(t, sent, 1, "users without activity are skipped")
	msg := sent[0]
	assert.Equal(t, "report-active@example.com", msg.To)
	assert.Equal(t, "Your Parking Report for July 2026", msg.Subject)
	assert.Equal(t, "parking_report_2026_07.html", msg.AttachmentFilename)
	assert.Contains(t, string(msg.AttachmentData), "Total Bookings")
	assert.Contains(t, string(msg.AttachmentData), "Harbor Front")
}

func TestMonthlyReportNoActivity(t *testing.T) {
	s, _ := newJobStore(t)
	seedJobUser(t, s, "report-quiet")

	mail := &recorderSender{}
	job := &MonthlyReport{Store: s, Mail: mail}

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No reports sent.", result)
	assert.Empty(t, mail.sent())
}

func TestLastMonthBounds(t *testing.T) {
	start, end := lastMonthBounds(time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.February, end.Month())
	assert.Equal(t, 28, end.Day())

	// Across a year boundary.
	start, end = lastMonthBounds(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.December, end.Month())
}

func TestExportUserData(t *testing.T) {
	s, _ := newJobStore(t)
	ctx := context.Background()

	user := seedJobUser(t, s, "export-rider")
	_, spot := seedJobLot(t, s)

	reservation, err := s.BookSpot(ctx, user.ID, store.BookingRequest{
		SpotID: spot.ID, VehicleNumber: "TN21AA0001",
	})
	require.NoError(t, err)
	_, err = s.ReleaseReservation(ctx, user.ID, reservation.ID, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	_, err = s.RecordPayment(ctx, reservation.ID, 30, "card")
	require.NoError(t, err)

	mail := &recorderSender{}
	job := &ExportUserData{Store: s, Mail: mail, UserID: user.ID}

	result, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, result, "1 rows")

	sent := mail.sent()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "Your Parking Data Export is Ready", msg.Subject)
	assert.True(t, strings.HasSuffix(msg.AttachmentFilename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(msg.AttachmentData)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "lot_id,spot_number,parking_timestamp,leaving_timestamp,amount", lines[0])
	assert.Contains(t, lines[1], spot.SpotNumber)
	assert.Contains(t, lines[1], "30.00")
}

func TestExportUserDataNoReservations(t *testing.T) {
	s, _ := newJobStore(t)
	user := seedJobUser(t, s, "export-empty")

	mail := &recorderSender{}
	job := &ExportUserData{Store: s, Mail: mail, UserID: user.ID}

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No reservations to export.", result)

	sent := mail.sent()
	require.Len(t, sent, 1, "the user is told there was nothing to export")
	assert.Empty(t, sent[0].AttachmentData)
}

func TestWelcomeEmail(t *testing.T) {
	s, _ := newJobStore(t)
	user := seedJobUser(t, s, "fresh-signup")

	mail := &recorderSender{}
	job := &WelcomeEmail{Store: s, Mail: mail, Email: user.Email}

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, result, user.Email)

	sent := mail.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, user.FullName)
	assert.True(t, sent[0].HTML)

	// Unknown address is a hard failure: the job was enqueued for a user
	// that should exist.
	missing := &WelcomeEmail{Store: s, Mail: mail, Email: "ghost@example.com"}
	_, err = missing.Run(context.Background())
	assert.Error(t, err)
}

func TestTokenCleanup(t *testing.T) {
	s, gormDB := newJobStore(t)
	ctx := context.Background()

	require.NoError(t, s.RevokeToken(ctx, "old-jti-1"))
	require.NoError(t, s.RevokeToken(ctx, "old-jti-2"))
	require.NoError(t, s.RevokeToken(ctx, "fresh-jti"))

	stale := time.Now().UTC().Add(-10 * 24 * time.Hour)
	require.NoError(t, gormDB.Model(&model.RevokedToken{}).
		Where("jti LIKE ?", "old-%").
		Update("created_at", stale).Error)

	job := &TokenCleanup{Store: s, Retention: 7 * 24 * time.Hour}
	result, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Token cleanup complete. Removed 2 tokens.", result)

	revoked, err := s.IsTokenRevoked(ctx, "fresh-jti")
	require.NoError(t, err)
	assert.True(t, revoked, "entries inside the retention window survive")
}
