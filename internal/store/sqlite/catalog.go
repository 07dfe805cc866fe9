package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
)

// catalogColumns is the ordered list of columns selected in catalog queries.
// Must match the scan order in scanCatalogItem.
const catalogColumns = `id, title, genre, year, rating, director, description,
	poster_url, trailer_url, restricted_link, created_at, updated_at`

// catalogSortColumns maps sortable fields to their SQL columns.
var catalogSortColumns = map[store.CatalogSortField]string{
	store.SortByTitle:     "title",
	store.SortByYear:      "year",
	store.SortByGenre:     "genre",
	store.SortByRating:    "rating",
	store.SortByCreatedAt: "created_at",
}

// scanCatalogItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.CatalogItem.
func scanCatalogItem(scanner interface{ Scan(dest ...any) error }) (*domain.CatalogItem, error) {
	var (
		item           domain.CatalogItem
		rating         sql.NullFloat64
		director       sql.NullString
		description    sql.NullString
		posterURL      sql.NullString
		trailerURL     sql.NullString
		restrictedLink sql.NullString
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(
		&item.ID,
		&item.Title,
		&item.Genre,
		&item.Year,
		&rating,
		&director,
		&description,
		&posterURL,
		&trailerURL,
		&restrictedLink,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		r := rating.Float64
		item.Rating = &r
	}
	item.Director = director.String
	item.Description = description.String
	item.PosterURL = posterURL.String
	item.TrailerURL = trailerURL.String
	item.RestrictedLink = restrictedLink.String

	item.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	item.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// collectCatalogItems drains rows into a slice.
func collectCatalogItems(rows *sql.Rows) ([]*domain.CatalogItem, error) {
	defer rows.Close()

	var items []*domain.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateCatalogItem inserts a new catalog item.
// Returns store.ErrAlreadyExists if the ID is taken.
func (s *Store) CreateCatalogItem(ctx context.Context, item *domain.CatalogItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_items (
			id, title, title_fold, genre, year, rating, director, description,
			poster_url, trailer_url, restricted_link, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Title,
		normalize.Fold(item.Title),
		item.Genre,
		item.Year,
		nullFloat(item.Rating),
		nullString(item.Director),
		nullString(item.Description),
		nullString(item.PosterURL),
		nullString(item.TrailerURL),
		nullString(item.RestrictedLink),
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCatalogItem retrieves a catalog item by ID.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) GetCatalogItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items WHERE id = ?`, id)

	item, err := scanCatalogItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetCatalogItemsByIDs fetches the items that exist among ids, in the order of ids.
// Missing IDs are skipped.
func (s *Store) GetCatalogItemsByIDs(ctx context.Context, ids []string) ([]*domain.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}
	found, err := collectCatalogItems(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.CatalogItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]*domain.CatalogItem, 0, len(found))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// ListCatalogItems returns the items matching every filter in query, ordered as requested.
func (s *Store) ListCatalogItems(ctx context.Context, query store.CatalogQuery) ([]*domain.CatalogItem, error) {
	var (
		where []string
		args  []any
	)

	if query.Genre != "" {
		where = append(where, "genre = ?")
		args = append(args, query.Genre)
	}
	if query.Year != 0 {
		where = append(where, "year = ?")
		args = append(args, query.Year)
	}
	if title := normalize.Fold(query.Title); title != "" {
		where = append(where, "instr(title_fold, ?) > 0")
		args = append(args, title)
	}

	column, ok := catalogSortColumns[query.SortBy]
	if !ok {
		column = catalogSortColumns[store.SortByTitle]
	}
	direction := "ASC"
	if query.Descending {
		direction = "DESC"
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + catalogColumns + ` FROM catalog_items`)
	if len(where) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(where, " AND "))
	}
	sb.WriteString(` ORDER BY ` + column + ` ` + direction + `, id ` + direction)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	return collectCatalogItems(rows)
}

// UpdateCatalogItem overwrites every editable field of an item.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) UpdateCatalogItem(ctx context.Context, item *domain.CatalogItem) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE catalog_items SET
			title = ?,
			title_fold = ?,
			genre = ?,
			year = ?,
			rating = ?,
			director = ?,
			description = ?,
			poster_url = ?,
			trailer_url = ?,
			restricted_link = ?,
			updated_at = ?
		WHERE id = ?`,
		item.Title,
		normalize.Fold(item.Title),
		item.Genre,
		item.Year,
		nullFloat(item.Rating),
		nullString(item.Director),
		nullString(item.Description),
		nullString(item.PosterURL),
		nullString(item.TrailerURL),
		nullString(item.RestrictedLink),
		formatTime(item.UpdatedAt),
		item.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteCatalogItem removes an item and its ratings.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) DeleteCatalogItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
