package domain

import "time"

// SavedListEntry records that a user saved an item to their personal list.
type SavedListEntry struct {
	UserID  string
	ItemID  string
	AddedAt time.Time
}
