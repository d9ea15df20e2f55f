package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/phonedex/internal/store"
)

// Favorite is a phone a user saved, with the display fields captured at the
// time it was saved.
type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PhoneID    string    `json:"phone_id"`
	PhoneName  string    `json:"phone_name"`
	PhoneImage string    `json:"phone_image"`
	PhonePrice float64   `json:"phone_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteRepository provides access to saved favorites.
type FavoriteRepository interface {
	// List returns a user's favorites, newest first unless opts says otherwise.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult[Favorite], error)

	// Add saves a favorite. Returns ErrAlreadyExists when the user already
	// saved the phone.
	Add(ctx context.Context, fav *Favorite) error

	// Delete removes a user's favorite for a phone.
	Delete(ctx context.Context, userID, phoneID string) error

	// Exists reports whether the user saved the phone.
	Exists(ctx context.Context, userID, phoneID string) (bool, error)
}

// Compile-time interface guard.
var _ FavoriteRepository = (*SQLiteFavoriteRepository)(nil)

// SQLiteFavoriteRepository implements FavoriteRepository using SQLite.
type SQLiteFavoriteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteFavoriteRepository creates a FavoriteRepository and runs the
// favorites migrations.
func NewSQLiteFavoriteRepository(ctx context.Context, s store.Store) (*SQLiteFavoriteRepository, error) {
	if err := s.Migrate(ctx, "favorites", favoriteMigrations); err != nil {
		return nil, fmt.Errorf("favorites migrations: %w", err)
	}
	return &SQLiteFavoriteRepository{db: s.DB(), now: time.Now}, nil
}

const favoriteColumns = `id, user_id, phone_id, phone_name, phone_image, phone_price, created_at`

// SetClock replaces the time source used for timestamps.
func (r *SQLiteFavoriteRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *SQLiteFavoriteRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult[Favorite], error) {
	opts = normalizeListOptions(opts)
	order := orderClause(opts, map[string]string{
		"created_at":  "created_at",
		"phone_name":  "phone_name",
		"phone_price": "phone_price",
	}, "created_at")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ?`, userID,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}

	//nolint:gosec // order is built from an allow-list
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? ORDER BY `+order+` LIMIT ? OFFSET ?`,
		userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	items := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.PhoneID, &f.PhoneName, &f.PhoneImage, &f.PhonePrice, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite row: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return &ListResult[Favorite]{Items: items, Total: total}, nil
}

func (r *SQLiteFavoriteRepository) Add(ctx context.Context, fav *Favorite) error {
	if fav.ID == "" {
		fav.ID = uuid.New().String()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = r.now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (`+favoriteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, phone_id) DO NOTHING`,
		fav.ID, fav.UserID, fav.PhoneID, fav.PhoneName, fav.PhoneImage, fav.PhonePrice, fav.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteFavoriteRepository) Delete(ctx context.Context, userID, phoneID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND phone_id = ?`, userID, phoneID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteFavoriteRepository) Exists(ctx context.Context, userID, phoneID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND phone_id = ?`, userID, phoneID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// favoriteMigrations defines the database schema for favorites.
var favoriteMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create favorites table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE favorites (
					id          TEXT PRIMARY KEY,
					user_id     TEXT NOT NULL,
					phone_id    TEXT NOT NULL,
					phone_name  TEXT NOT NULL DEFAULT '',
					phone_image TEXT NOT NULL DEFAULT '',
					phone_price REAL NOT NULL DEFAULT 0,
					created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					UNIQUE (user_id, phone_id)
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index favorites by user",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_favorites_user_created ON favorites (user_id, created_at)`)
			return err
		},
	},
}
