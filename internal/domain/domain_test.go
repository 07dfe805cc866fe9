package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"standard", RoleStandard, false},
		{"privileged", RolePrivileged, false},
		{"admin", "", true},
		{"Privileged", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity_IsPrivileged(t *testing.T) {
	assert.False(t, Identity{}.IsPrivileged(), "anonymous identity is never privileged")
	assert.False(t, Identity{Role: RolePrivileged}.IsPrivileged(), "role without a user is not an identity")
	assert.False(t, Identity{UserID: "user-1", Role: RoleStandard}.IsPrivileged())
	assert.True(t, Identity{UserID: "user-1", Role: RolePrivileged}.IsPrivileged())
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Minute)))
	assert.True(t, s.IsExpired(now.Add(time.Hour)))
}

func TestSession_IdentityCarriesRoleSnapshot(t *testing.T) {
	s := &Session{ID: "session-1", UserID: "user-1", Role: RolePrivileged}

	ident := s.Identity()

	assert.Equal(t, "user-1", ident.UserID)
	assert.Equal(t, RolePrivileged, ident.Role)
	assert.Equal(t, "session-1", ident.SessionID)
	assert.True(t, ident.IsAuthenticated())
}

func TestCatalogItem_ForViewer(t *testing.T) {
	item := &CatalogItem{ID: "i-1", Title: "Alien", RestrictedLink: "https://stream.example/alien"}

	anon := item.ForViewer(Identity{})
	assert.Empty(t, anon.RestrictedLink)
	assert.Equal(t, "Alien", anon.Title)
	assert.Equal(t, "https://stream.example/alien", item.RestrictedLink, "original must not be modified")

	signedIn := item.ForViewer(Identity{UserID: "user-1", Role: RoleStandard})
	assert.Equal(t, "https://stream.example/alien", signedIn.RestrictedLink)
}

func TestMaxCatalogYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2031, MaxCatalogYear(now))
}

func TestSummarizeRatings(t *testing.T) {
	tests := []struct {
		name    string
		scores  []int
		average float64
	}{
		{"no ratings", nil, 0.0},
		{"five four three", []int{5, 4, 3}, 4.0},
		{"rounds to one decimal", []int{5, 4, 4}, 4.3},
		{"rounds half up", []int{5, 4, 4, 4}, 4.3},
		{"single", []int{1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings := make([]*Rating, 0, len(tt.scores))
			for _, s := range tt.scores {
				ratings = append(ratings, &Rating{Score: s})
			}

			summary := SummarizeRatings(ratings)

			assert.Equal(t, len(tt.scores), summary.Count)
			assert.InDelta(t, tt.average, summary.Average, 1e-9)
		})
	}
}

func TestRating_IsOwnedBy(t *testing.T) {
	r := &Rating{UserID: "user-1"}

	assert.True(t, r.IsOwnedBy("user-1"))
	assert.False(t, r.IsOwnedBy("user-2"))
	assert.False(t, r.IsOwnedBy(""))
}
