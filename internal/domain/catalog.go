package domain

import "time"

// Bounds for catalog item attributes.
const (
	MinCatalogYear = 1800
	// MaxCatalogYearAhead is how many years past the current one an item may be dated.
	MaxCatalogYearAhead = 5
	MinCuratorRating    = 0.0
	MaxCuratorRating    = 10.0
)

// MaxCatalogYear returns the latest year accepted for an item at time now.
func MaxCatalogYear(now time.Time) int {
	return now.Year() + MaxCatalogYearAhead
}

// CatalogItem is a record in the browsable catalog.
// RestrictedLink is only ever shown to signed-in viewers.
type CatalogItem struct {
	ID             string
	Title          string
	Genre          string
	Year           int
	Rating         *float64 // curator rating, independent of user ratings
	Director       string
	Description    string
	PosterURL      string
	TrailerURL     string
	RestrictedLink string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Redacted returns a copy of the item with the restricted link removed.
func (c *CatalogItem) Redacted() *CatalogItem {
	cp := *c
	cp.RestrictedLink = ""
	return &cp
}

// ForViewer returns the item as it may be shown to the given identity.
func (c *CatalogItem) ForViewer(viewer Identity) *CatalogItem {
	if viewer.IsAuthenticated() {
		return c
	}
	return c.Redacted()
}
