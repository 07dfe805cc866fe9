package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

// ratingColumns is the ordered list of columns selected in rating queries.
// Must match the scan order in scanRating.
const ratingColumns = `r.id, r.user_id, r.item_id, r.score, r.comment, r.created_at, r.updated_at,
	COALESCE(u.email, '')`

// ratingFrom joins the author so listings can show who wrote each rating.
const ratingFrom = ` FROM ratings r LEFT JOIN users u ON u.id = r.user_id`

// scanRating scans a sql.Row (or sql.Rows via its Scan method) into a domain.Rating.
func scanRating(scanner interface{ Scan(dest ...any) error }) (*domain.Rating, error) {
	var (
		r         domain.Rating
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&r.ItemID,
		&r.Score,
		&r.Comment,
		&createdAt,
		&updatedAt,
		&r.AuthorEmail,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateRating inserts a rating.
// The (user, item) pair is claimed atomically: a second rating for the same pair
// returns store.ErrAlreadyExists. A missing user or item returns store.ErrNotFound.
func (s *Store) CreateRating(ctx context.Context, rating *domain.Rating) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (id, user_id, item_id, score, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO NOTHING`,
		rating.ID,
		rating.UserID,
		rating.ItemID,
		rating.Score,
		rating.Comment,
		formatTime(rating.CreatedAt),
		formatTime(rating.UpdatedAt),
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return store.ErrNotFound.WithMessage("item not found")
		case isUniqueViolation(err):
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists.WithMessage("rating already exists for this item")
	}
	return nil
}

// GetRating retrieves a rating by ID.
// Returns store.ErrNotFound if the rating does not exist.
func (s *Store) GetRating(ctx context.Context, id string) (*domain.Rating, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+ratingFrom+` WHERE r.id = ?`, id)

	r, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRatingByUserAndItem retrieves the rating a user left on an item.
// Returns store.ErrNotFound if there is none.
func (s *Store) GetRatingByUserAndItem(ctx context.Context, userID, itemID string) (*domain.Rating, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+ratingFrom+` WHERE r.user_id = ? AND r.item_id = ?`, userID, itemID)

	r, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRating overwrites the score and comment of a rating.
// Returns store.ErrNotFound if the rating does not exist.
func (s *Store) UpdateRating(ctx context.Context, rating *domain.Rating) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ratings SET score = ?, comment = ?, updated_at = ?
		WHERE id = ?`,
		rating.Score,
		rating.Comment,
		formatTime(rating.UpdatedAt),
		rating.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteRating removes a rating by ID.
// Returns store.ErrNotFound if the rating does not exist.
func (s *Store) DeleteRating(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListRatingsForItem returns every rating of an item, newest first.
func (s *Store) ListRatingsForItem(ctx context.Context, itemID string) ([]*domain.Rating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ratingColumns+ratingFrom+` WHERE r.item_id = ? ORDER BY r.created_at DESC, r.id DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
