package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HerbHall/phonedex/internal/store"
)

// Rating is one user's score for a phone. A user holds at most one rating
// per phone; rating again replaces the score and comment.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PhoneID   string    `json:"phone_id"`
	Score     float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary is the mean score of a phone, rounded to one decimal.
type RatingSummary struct {
	PhoneID string  `json:"phone_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// MaxScore is the upper bound of a user rating.
const MaxScore = 10

// RatingRepository provides access to user ratings.
type RatingRepository interface {
	// List returns a phone's ratings, newest first unless opts says otherwise.
	List(ctx context.Context, phoneID string, opts ListOptions) (*ListResult[Rating], error)

	// Upsert records a rating, replacing the user's previous score for the
	// phone. Returns ErrInvalidScore for scores outside [0, MaxScore].
	Upsert(ctx context.Context, rating *Rating) error

	// Get returns the user's rating for a phone.
	Get(ctx context.Context, userID, phoneID string) (*Rating, error)

	// Average summarises a phone's ratings. A phone without ratings yields a
	// zero average and count.
	Average(ctx context.Context, phoneID string) (*RatingSummary, error)
}

// Compile-time interface guard.
var _ RatingRepository = (*SQLiteRatingRepository)(nil)

// SQLiteRatingRepository implements RatingRepository using SQLite.
type SQLiteRatingRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRatingRepository creates a RatingRepository and runs the ratings
// migrations.
func NewSQLiteRatingRepository(ctx context.Context, s store.Store) (*SQLiteRatingRepository, error) {
	if err := s.Migrate(ctx, "ratings", ratingMigrations); err != nil {
		return nil, fmt.Errorf("ratings migrations: %w", err)
	}
	return &SQLiteRatingRepository{db: s.DB(), now: time.Now}, nil
}

const ratingColumns = `id, user_id, phone_id, score, comment, created_at, updated_at`

// SetClock replaces the time source used for timestamps.
func (r *SQLiteRatingRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *SQLiteRatingRepository) List(ctx context.Context, phoneID string, opts ListOptions) (*ListResult[Rating], error) {
	opts = normalizeListOptions(opts)
	order := orderClause(opts, map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"rating":     "score",
	}, "created_at")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE phone_id = ?`, phoneID,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	//nolint:gosec // order is built from an allow-list
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE phone_id = ? ORDER BY `+order+` LIMIT ? OFFSET ?`,
		phoneID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	items := make([]Rating, 0)
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		items = append(items, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return &ListResult[Rating]{Items: items, Total: total}, nil
}

func (r *SQLiteRatingRepository) Upsert(ctx context.Context, rating *Rating) error {
	if math.IsNaN(rating.Score) || rating.Score < 0 || rating.Score > MaxScore {
		return ErrInvalidScore
	}
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	now := r.now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ratings (`+ratingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, phone_id) DO UPDATE SET
			score = excluded.score,
			comment = excluded.comment,
			updated_at = excluded.updated_at`,
		rating.ID, rating.UserID, rating.PhoneID, rating.Score, rating.Comment, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	stored, err := r.Get(ctx, rating.UserID, rating.PhoneID)
	if err != nil {
		return err
	}
	*rating = *stored
	return nil
}

func (r *SQLiteRatingRepository) Get(ctx context.Context, userID, phoneID string) (*Rating, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND phone_id = ?`, userID, phoneID)
	rt, err := scanRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rt, nil
}

func (r *SQLiteRatingRepository) Average(ctx context.Context, phoneID string) (*RatingSummary, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(score), COUNT(*) FROM ratings WHERE phone_id = ?`, phoneID,
	).Scan(&avg, &count)
	if err != nil {
		return nil, fmt.Errorf("average ratings: %w", err)
	}
	return &RatingSummary{
		PhoneID: phoneID,
		Average: decimal.NewFromFloat(avg.Float64).Round(1).InexactFloat64(),
		Count:   count,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRating(row rowScanner) (*Rating, error) {
	var rt Rating
	err := row.Scan(&rt.ID, &rt.UserID, &rt.PhoneID, &rt.Score, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// ratingMigrations defines the database schema for ratings.
var ratingMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create ratings table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE ratings (
					id         TEXT PRIMARY KEY,
					user_id    TEXT NOT NULL,
					phone_id   TEXT NOT NULL,
					score      REAL NOT NULL CHECK (score >= 0 AND score <= 10),
					comment    TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					UNIQUE (user_id, phone_id)
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index ratings by phone",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_ratings_phone_created ON ratings (phone_id, created_at)`)
			return err
		},
	},
}
