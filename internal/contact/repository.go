// Package contact stores inquiries sent through the public contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Contact is one inquiry.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a contact does not exist.
var ErrNotFound = errors.New("contact not found")

// Repository handles all contact database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a contact and returns the stored record.
func (r *Repository) Create(ctx context.Context, c *Contact) (*Contact, error) {
	out := &Contact{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, subject, message)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, email, phone, subject, message, created_at`,
		c.Name, c.Email, c.Phone, c.Subject, c.Message,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.Subject, &out.Message, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return out, nil
}

// List returns contacts newest first.
func (r *Repository) List(ctx context.Context) ([]Contact, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, phone, subject, message, created_at
		 FROM contacts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Contact, error) {
		var c Contact
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	return out, nil
}

// Delete removes the contact with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
