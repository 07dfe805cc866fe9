// Package main provides a tool to seed the database with a sample film catalog.
//
// Items are added through the catalog service so they pass the same validation
// as API writes. With --with-ratings it also creates test users and has each of
// them review a random subset of the catalog.
//
// Usage:
//
//	DATA_PATH=~/CatalogServer go run ./cmd/seed
//	DATA_PATH=~/CatalogServer go run ./cmd/seed --with-ratings
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

var (
	dataPath    = flag.String("data-path", "", "Data directory holding catalog.db (env: DATA_PATH)")
	withRatings = flag.Bool("with-ratings", false, "Create test users and random ratings")
)

// seedActor is the identity catalog writes are attributed to.
var seedActor = domain.Identity{UserID: "seed", Role: domain.RolePrivileged}

type sampleItem struct {
	title    string
	genre    string
	year     int
	director string
	rating   float64
}

var sampleItems = []sampleItem{
	{"The Night Harbor", "Drama", 1998, "Ana Reyes", 7.8},
	{"Paper Satellites", "Science Fiction", 2014, "Tomasz Wild", 8.1},
	{"A Quiet Ledger", "Drama", 2003, "Mina Okafor", 6.9},
	{"Cold Frontier", "Western", 1967, "Harold Finch", 7.2},
	{"Laughing Matters", "Comedy", 2019, "Priya Das", 6.4},
	{"Under the Lantern", "Mystery", 1952, "Ellis Grant", 8.4},
	{"Orbital Drift", "Science Fiction", 2021, "Kenji Sato", 7.5},
	{"The Last Orchard", "Drama", 1989, "Clara Moss", 7.9},
	{"Midnight Recipe", "Comedy", 2008, "Luca Bianchi", 5.8},
	{"Silent Tide", "Thriller", 2016, "Noor Haddad", 7.1},
}

type testUser struct {
	name  string
	email string
}

var testUsers = []testUser{
	{"Sarah Chen", "sarah.chen@test.local"},
	{"Marcus Johnson", "marcus.j@test.local"},
	{"Emma Wilson", "emma.w@test.local"},
	{"James Rodriguez", "james.r@test.local"},
	{"Olivia Taylor", "olivia.t@test.local"},
}

const testPassword = "testpass123"

var sampleComments = []string{
	"",
	"Worth a rewatch.",
	"Slow start, strong finish.",
	"Not for me.",
	"The score alone is worth it.",
}

func main() {
	flag.Parse()

	path := *dataPath
	if path == "" {
		path = os.Getenv("DATA_PATH")
	}
	if path == "" {
		path = os.ExpandEnv("$HOME/CatalogServer")
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	data := config.DataConfig{Path: path}
	fmt.Printf("Opening database at: %s\n", data.DatabasePath())

	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(data.DatabasePath(), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	catalog := service.NewCatalogService(st, logger)

	items := seedCatalog(ctx, catalog)

	if *withRatings {
		key, err := auth.LoadOrGenerateKey(filepath.Clean(path))
		if err != nil {
			log.Fatalf("Failed to load session key: %v", err)
		}
		sealer, err := auth.NewSessionSealer(key)
		if err != nil {
			log.Fatalf("Failed to create session sealer: %v", err)
		}

		sessions := service.NewSessionService(st, sealer, time.Hour, logger)
		authService := service.NewAuthService(st, auth.NewPasswordHasher(auth.DefaultHashParams), sessions, logger)
		ratings := service.NewRatingService(st, logger)

		seedRatings(ctx, authService, ratings, items)
	}

	fmt.Println("\nDone!")
}

// seedCatalog adds the sample items that are not already present and returns
// every catalog item afterwards.
func seedCatalog(ctx context.Context, catalog *service.CatalogService) []*domain.CatalogItem {
	created := 0
	for _, s := range sampleItems {
		existing, err := catalog.List(ctx, service.CatalogFilter{Title: s.title}, service.CatalogSort{}, seedActor)
		if err != nil {
			log.Fatalf("Failed to check for %q: %v", s.title, err)
		}
		if len(existing) > 0 {
			fmt.Printf("  Skipped %s (already present)\n", s.title)
			continue
		}

		rating := s.rating
		item, err := catalog.Create(ctx, seedActor, service.CatalogItemRequest{
			Title:          s.title,
			Genre:          s.genre,
			Year:           s.year,
			Director:       s.director,
			Rating:         &rating,
			RestrictedLink: "https://stream.example.com/watch/" + normalize.Slug(s.title),
		})
		if err != nil {
			log.Printf("Failed to create %q: %v", s.title, err)
			continue
		}
		created++
		fmt.Printf("  Created %s (%s, %d) -> %s\n", item.Title, item.Genre, item.Year, item.ID)
	}

	fmt.Printf("Created %d catalog items\n", created)

	items, err := catalog.List(ctx, service.CatalogFilter{}, service.CatalogSort{}, seedActor)
	if err != nil {
		log.Fatalf("Failed to list catalog: %v", err)
	}
	return items
}

// seedRatings registers the test users (or signs in existing ones) and has
// each review a random subset of items.
func seedRatings(ctx context.Context, authService *service.AuthService, ratings *service.RatingService, items []*domain.CatalogItem) {
	if len(items) == 0 {
		log.Fatal("No catalog items found; nothing to rate.")
	}

	rng := rand.New(rand.NewSource(rand.Int63()))
	total := 0

	for _, u := range testUsers {
		result, err := authService.Register(ctx, service.RegisterRequest{
			Name:     u.name,
			Email:    u.email,
			Password: testPassword,
		})
		if err != nil {
			result, err = authService.Login(ctx, service.LoginRequest{Email: u.email, Password: testPassword})
			if err != nil {
				log.Printf("Failed to set up user %s: %v", u.email, err)
				continue
			}
			fmt.Printf("\nUsing existing user: %s (%s)\n", u.name, result.User.ID)
		} else {
			fmt.Printf("\nCreated user: %s (%s)\n", u.name, result.User.ID)
		}

		actor := result.Session.Identity()
		count := 0
		for _, idx := range rng.Perm(len(items))[:1+rng.Intn(len(items))] {
			item := items[idx]
			_, err := ratings.Submit(ctx, actor, service.SubmitRatingRequest{
				ItemID:  item.ID,
				Score:   1 + rng.Intn(5),
				Comment: sampleComments[rng.Intn(len(sampleComments))],
			})
			if err != nil {
				if errors.Is(err, domainerrors.ErrConflict) {
					continue
				}
				log.Printf("  Failed to rate %s: %v", item.Title, err)
				continue
			}
			count++
		}
		total += count
		fmt.Printf("  Added %d ratings\n", count)

		if err := authService.Logout(ctx, result.Token); err != nil {
			log.Printf("  Failed to close seed session: %v", err)
		}
	}

	fmt.Printf("\nCreated %d ratings across %d users (password: %s)\n", total, len(testUsers), testPassword)
}
