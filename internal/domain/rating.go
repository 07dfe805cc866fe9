package domain

import (
	"math"
	"time"
)

// Score bounds for a user rating.
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is a user's review of a catalog item. A user has at most one per item.
type Rating struct {
	ID        string
	UserID    string
	ItemID    string
	Score     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// AuthorEmail is filled in by listing queries.
	AuthorEmail string
}

// IsOwnedBy reports whether userID authored the rating.
func (r *Rating) IsOwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

// RatingSummary is the aggregated view of every rating for an item.
type RatingSummary struct {
	Ratings []*Rating
	Average float64
	Count   int
}

// SummarizeRatings computes the mean score rounded to one decimal place.
// The average of no ratings is 0.
func SummarizeRatings(ratings []*Rating) RatingSummary {
	summary := RatingSummary{Ratings: ratings, Count: len(ratings)}
	if len(ratings) == 0 {
		return summary
	}

	total := 0
	for _, r := range ratings {
		total += r.Score
	}
	mean := float64(total) / float64(len(ratings))
	summary.Average = math.Round(mean*10) / 10
	return summary
}
