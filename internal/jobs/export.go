package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/store"
)

// ExportUserData builds a CSV of the user's full reservation history,
// newest first, and emails it as an attachment. A user with no reservations
// gets a plain notice instead.
type ExportUserData struct {
	Store  store.Store
	Mail   mailer.Sender
	UserID string
}

// Name implements Job.
func (j *ExportUserData) Name() string { return "export_user_data" }

// Run implements Job.
func (j *ExportUserData) Run(ctx context.Context) (string, error) {
	user, err := j.Store.GetUserByID(ctx, j.UserID)
	if err != nil {
		return "", fmt.Errorf("lookup user %s: %w", j.UserID, err)
	}

	rows, err := j.Store.ExportRows(ctx, j.UserID)
	if err != nil {
		return "", fmt.Errorf("query reservations: %w", err)
	}

	if len(rows) == 0 {
		msg := mailer.Message{
			To:      user.Email,
			Subject: "Your Parking Data Export",
			Body: fmt.Sprintf("Hi %s,\n\nYou requested an export of your parking data, but you have no reservations to export.",
				user.Username),
		}
		if err := j.Mail.Send(msg); err != nil {
			return "", fmt.Errorf("send notice: %w", err)
		}
		return "No reservations to export.", nil
	}

	data, err := renderCSV(rows)
	if err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}

	msg := mailer.Message{
		To:                 user.Email,
		Subject:            "Your Parking Data Export is Ready",
		Body:               fmt.Sprintf("Hi %s,\n\nPlease find your parking history attached.", user.Username),
		AttachmentData:     data,
		AttachmentFilename: fmt.Sprintf("parking_export_%s_%s.csv", user.ID, time.Now().UTC().Format("20060102")),
	}
	if err := j.Mail.Send(msg); err != nil {
		return "", fmt.Errorf("send export: %w", err)
	}
	return fmt.Sprintf("CSV export sent to %s (%d rows).", user.Email, len(rows)), nil
}

func renderCSV(rows []store.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"lot_id", "spot_number", "parking_timestamp", "leaving_timestamp", "amount"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		leaving := ""
		if row.LeavingTimestamp != nil {
			leaving = row.LeavingTimestamp.Format(time.RFC3339)
		}
		record := []string{
			fmt.Sprintf("%d", row.LotID),
			row.SpotNumber,
			row.ParkingTimestamp.Format(time.RFC3339),
			leaving,
			fmt.Sprintf("%.2f", row.Amount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
