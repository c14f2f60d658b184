// Package booking stores event booking requests and their handling status.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status tracks a booking through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is one event booking request.
type Booking struct {
	ID               string    `json:"id"`
	EventTitle       string    `json:"eventTitle"`
	EventDate        string    `json:"eventDate"`
	EventTime        string    `json:"eventTime"`
	Address          string    `json:"address"`
	HomeName         string    `json:"homeName,omitempty"`
	GateCode         string    `json:"gateCode,omitempty"`
	WifiUsername     string    `json:"wifiUsername,omitempty"`
	WifiPassword     string    `json:"wifiPassword,omitempty"`
	HomePhotoURL     string    `json:"homePhotoUrl,omitempty"`
	FamilyMembers    string    `json:"familyMembers"`
	ComplimentsNames string    `json:"complimentsNames,omitempty"`
	PanditDetails    string    `json:"panditDetails,omitempty"`
	Highlights       string    `json:"highlights,omitempty"`
	SpecialNeeds     string    `json:"specialNeeds,omitempty"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a booking does not exist.
var ErrNotFound = errors.New("booking not found")

const columns = `id, event_title, event_date::text, to_char(event_time, 'HH24:MI'), address, home_name,
	gate_code, wifi_username, wifi_password, home_photo_url, family_members, compliments_names,
	pandit_details, highlights, special_needs, status, created_at`

func scan(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.EventTitle, &b.EventDate, &b.EventTime, &b.Address, &b.HomeName,
		&b.GateCode, &b.WifiUsername, &b.WifiPassword, &b.HomePhotoURL, &b.FamilyMembers, &b.ComplimentsNames,
		&b.PanditDetails, &b.Highlights, &b.SpecialNeeds, &b.Status, &b.CreatedAt)
	return b, err
}

// Repository handles all booking database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking with status pending and returns the stored record.
func (r *Repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	out, err := scan(r.db.QueryRow(ctx,
		`INSERT INTO bookings (event_title, event_date, event_time, address, home_name, gate_code,
			wifi_username, wifi_password, home_photo_url, family_members, compliments_names,
			pandit_details, highlights, special_needs)
		 VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+columns,
		b.EventTitle, b.EventDate, b.EventTime, b.Address, b.HomeName, b.GateCode,
		b.WifiUsername, b.WifiPassword, b.HomePhotoURL, b.FamilyMembers, b.ComplimentsNames,
		b.PanditDetails, b.Highlights, b.SpecialNeeds,
	))
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &out, nil
}

// List returns bookings newest first.
func (r *Repository) List(ctx context.Context) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Booking, error) {
		return scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the status of a booking and returns the updated record.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	out, err := scan(r.db.QueryRow(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1 RETURNING `+columns,
		id, status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	return &out, nil
}

// Delete removes the booking with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
