// Package review stores customer testimonials shown on the public site.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Review is one customer testimonial.
type Review struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location,omitempty"`
	ReviewText string    `json:"reviewText"`
	Rating     int       `json:"rating"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	ImageURL1  string    `json:"imageUrl1,omitempty"`
	ImageURL2  string    `json:"imageUrl2,omitempty"`
	ImageURL3  string    `json:"imageUrl3,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a review does not exist.
var ErrNotFound = errors.New("review not found")

const columns = `id, name, location, review_text, rating, photo_url, image_url_1, image_url_2, image_url_3, created_at`

// Repository handles all review database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scan(row pgx.Row) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.Name, &rv.Location, &rv.ReviewText, &rv.Rating,
		&rv.PhotoURL, &rv.ImageURL1, &rv.ImageURL2, &rv.ImageURL3, &rv.CreatedAt)
	return rv, err
}

// Create inserts a review and returns the stored record.
func (r *Repository) Create(ctx context.Context, rv *Review) (*Review, error) {
	out, err := scan(r.db.QueryRow(ctx,
		`INSERT INTO reviews (name, location, review_text, rating, photo_url, image_url_1, image_url_2, image_url_3)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columns,
		rv.Name, rv.Location, rv.ReviewText, rv.Rating, rv.PhotoURL, rv.ImageURL1, rv.ImageURL2, rv.ImageURL3,
	))
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &out, nil
}

// List returns reviews newest first.
func (r *Repository) List(ctx context.Context) ([]Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM reviews ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Review, error) {
		return scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	return out, nil
}

// Delete removes the review with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
