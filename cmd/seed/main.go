// Package main is a development helper: it mints a session token for a user
// ID and optionally seeds the database with sample notes owned by that user,
// so the API can be exercised without a running identity provider.
//
// Usage:
//
//	go run ./cmd/seed -user 9f3c... [-notes]
//
// Configuration comes from the same environment variables as the server
// (DATABASE_URL, SESSION_KEY).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notageng/backend/internal/auth"
	"github.com/notageng/backend/internal/config"
	"github.com/notageng/backend/internal/domain"
	"github.com/notageng/backend/internal/repo"
	"github.com/notageng/backend/internal/service"
)

func main() {
	userFlag := flag.String("user", "", "user UUID to mint a session for (random if empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "session token lifetime")
	seedNotes := flag.Bool("notes", false, "also insert sample notes for the user")
	flag.Parse()

	if err := run(*userFlag, *ttl, *seedNotes); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(userFlag string, ttl time.Duration, seedNotes bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	userID := uuid.New()
	if userFlag != "" {
		userID, err = uuid.Parse(userFlag)
		if err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
	}

	tokens, err := auth.NewTokenService(cfg.SessionKey)
	if err != nil {
		return err
	}

	fmt.Printf("user:  %s\n", userID)
	fmt.Printf("token: %s\n", tokens.Mint(userID, ttl))

	if !seedNotes {
		return nil
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	taxonomy := service.NewTaxonomyService(repo.NewSubjectRepo(pool), repo.NewTagRepo(pool))
	notes := service.NewNoteService(repo.NewNoteRepo(pool), taxonomy)
	viewer := domain.Identity{UserID: userID}

	samples := []service.NoteInput{
		{
			Title:      "Integration by Parts",
			Content:    "# Integration by Parts\n\n∫u dv = uv − ∫v du\n\nPick *u* by LIATE.",
			Subject:    "Matematik",
			Visibility: domain.VisibilityShared,
			Tags:       []string{"calculus", "exam"},
		},
		{
			Title:      "Sejarah Bab 3 Notes",
			Content:    "Key dates and figures, **do not share** before the quiz.",
			Subject:    "Sejarah",
			Visibility: domain.VisibilityPrivate,
			Tags:       []string{"quiz"},
		},
	}

	for _, in := range samples {
		note, err := notes.Create(ctx, viewer, in)
		if err != nil {
			return err
		}
		fmt.Printf("note:  /notes/%s (%s)\n", note.Slug, note.Visibility)
	}
	return nil
}
