// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package reviews

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	st, err := store.Open(config.StorageConfig{Path: t.TempDir(), GCDiscardRatio: 0.5})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st), st
}

func seedCatalog(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()

	movies := []models.Movie{
		{ID: "m1", Title: "Heat", Year: 1995, Genres: []string{"Crime", "Drama"}},
		{ID: "m2", Title: "Ronin", Year: 1998, Genres: []string{"Action"}},
	}
	for i := range movies {
		movies[i].CreatedAt = time.Now().UTC()
		if err := st.SaveMovie(ctx, &movies[i]); err != nil {
			t.Fatalf("seeding movie: %v", err)
		}
	}
	users := []models.User{
		{ID: "u1", Username: "alice", Email: "alice@example.com"},
		{ID: "u2", Username: "bob", Email: "bob@example.com"},
	}
	for i := range users {
		if err := st.SaveUser(ctx, &users[i]); err != nil {
			t.Fatalf("seeding user: %v", err)
		}
	}
}

func seedReview(t *testing.T, st *store.Store, r models.Review) {
	t.Helper()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if err := st.SaveReview(context.Background(), &r); err != nil {
		t.Fatalf("seeding review %s: %v", r.ID, err)
	}
}

func TestAddValidates(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ReviewInput
	}{
		{"rating too low", ReviewInput{UserID: "u1", MovieID: "m1", Rating: 0.5, Comment: "ok"}},
		{"rating too high", ReviewInput{UserID: "u1", MovieID: "m1", Rating: 10.5, Comment: "ok"}},
		{"empty comment", ReviewInput{UserID: "u1", MovieID: "m1", Rating: 8}},
		{"blank comment", ReviewInput{UserID: "u1", MovieID: "m1", Rating: 8, Comment: "   "}},
		{"comment too long", ReviewInput{UserID: "u1", MovieID: "m1", Rating: 8, Comment: strings.Repeat("x", 2001)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tt.input); !apperrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddChecksReferences(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	if _, err := svc.Add(ctx, ReviewInput{UserID: "u1", MovieID: "ghost", Rating: 8, Comment: "ok"}); !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found for missing movie, got %v", err)
	}
	if _, err := svc.Add(ctx, ReviewInput{UserID: "ghost", MovieID: "m1", Rating: 8, Comment: "ok"}); !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found for missing user, got %v", err)
	}
}

func TestAddEnforcesOneReviewPerMovie(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	if _, err := svc.Add(ctx, ReviewInput{UserID: "u1", MovieID: "m1", Rating: 8, Comment: "great"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, ReviewInput{UserID: "u1", MovieID: "m1", Rating: 5, Comment: "changed my mind"}); !apperrors.IsDuplicate(err) {
		t.Errorf("expected duplicate error, got %v", err)
	}
	// A different user may still review the same movie.
	if _, err := svc.Add(ctx, ReviewInput{UserID: "u2", MovieID: "m1", Rating: 6, Comment: "fine"}); err != nil {
		t.Errorf("second user's review: %v", err)
	}
}

func TestAddRecomputesRollups(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	if _, err := svc.Add(ctx, ReviewInput{UserID: "u1", MovieID: "m1", Rating: 8, Comment: "great"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, ReviewInput{UserID: "u2", MovieID: "m1", Rating: 6, Comment: "fine"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	movie, err := st.GetMovie(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if movie.ReviewCount != 2 || movie.AverageRating != 7 {
		t.Errorf("movie rollup = %d/%v, want 2/7", movie.ReviewCount, movie.AverageRating)
	}

	user, err := st.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Stats.TotalReviews != 1 || user.Stats.AverageRating != 8 {
		t.Errorf("user rollup = %+v", user.Stats)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	review, err := svc.Add(ctx, ReviewInput{UserID: "u1", MovieID: "m1", Rating: 8, Comment: "great"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	rating := 4.0
	updated, err := svc.Update(ctx, review.ID, ReviewPatch{Rating: &rating})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Rating != 4 || updated.Comment != "great" {
		t.Errorf("unexpected patched review: %+v", updated)
	}

	movie, _ := st.GetMovie(ctx, "m1")
	if movie.AverageRating != 4 {
		t.Errorf("movie rollup after update = %v, want 4", movie.AverageRating)
	}

	if err := svc.Delete(ctx, review.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, review.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}

	movie, _ = st.GetMovie(ctx, "m1")
	if movie.ReviewCount != 0 || movie.AverageRating != 0 {
		t.Errorf("movie rollup after delete = %+v", movie)
	}
	user, _ := st.GetUser(ctx, "u1")
	if user.Stats.TotalReviews != 0 {
		t.Errorf("user rollup after delete = %+v", user.Stats)
	}
}

func TestUserMovieReview(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8})

	got, err := svc.UserMovieReview(ctx, "u1", "m1")
	if err != nil {
		t.Fatalf("UserMovieReview: %v", err)
	}
	if got == nil || got.ID != "r1" {
		t.Errorf("UserMovieReview = %+v, want r1", got)
	}

	got, err = svc.UserMovieReview(ctx, "u1", "m2")
	if err != nil {
		t.Fatalf("UserMovieReview: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unreviewed movie, got %+v", got)
	}
}

func TestLikeDislikeAndTags(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8})

	if _, err := svc.Like(ctx, "r1"); err != nil {
		t.Fatalf("Like: %v", err)
	}
	review, err := svc.Like(ctx, "r1")
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if review.Likes != 2 {
		t.Errorf("Likes = %d, want 2", review.Likes)
	}

	review, err = svc.Dislike(ctx, "r1")
	if err != nil {
		t.Fatalf("Dislike: %v", err)
	}
	if review.Dislikes != 1 {
		t.Errorf("Dislikes = %d, want 1", review.Dislikes)
	}

	review, err = svc.AddTag(ctx, "r1", "rewatch")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	review, err = svc.AddTag(ctx, "r1", "rewatch")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if len(review.Tags) != 1 || review.Tags[0] != "rewatch" {
		t.Errorf("Tags = %v, want [rewatch]", review.Tags)
	}

	review, err = svc.RemoveTag(ctx, "r1", "rewatch")
	if err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}
	if len(review.Tags) != 0 {
		t.Errorf("Tags after remove = %v", review.Tags)
	}

	if _, err := svc.Like(ctx, "ghost"); !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestRecentAndTop(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	base := time.Now().UTC().Add(-72 * time.Hour)
	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8, IsPublic: true, Likes: 3, CreatedAt: base})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u2", MovieID: "m1", Rating: 6, IsPublic: false, Likes: 9, CreatedAt: base.Add(time.Hour)})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u1", MovieID: "m2", Rating: 7, IsPublic: true, Likes: 5, CreatedAt: base.Add(2 * time.Hour)})

	recent, err := svc.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "r3" || recent[1].ID != "r2" {
		t.Errorf("Recent = %+v", recent)
	}

	top, err := svc.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	// Private r2 is excluded despite having the most likes.
	if len(top) != 2 || top[0].ID != "r3" || top[1].ID != "r1" {
		t.Errorf("Top = %+v", top)
	}
}

func TestSearch(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8, IsPublic: true, Comment: "A masterpiece of tension"})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u2", MovieID: "m1", Rating: 6, IsPublic: true, Tags: []string{"slow-burn"}})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u1", MovieID: "m2", Rating: 7, IsPublic: false, Comment: "tension everywhere"})

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"matches comment", "tension", []string{"r1"}},
		{"matches tag", "burn", []string{"r2"}},
		{"too short", "t", nil},
		{"blank", "  ", nil},
		{"no match", "robots", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d reviews, want %d: %+v", len(got), len(tt.wantIDs), got)
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestTrending(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	now := time.Now().UTC()
	// Old review falls outside the week window regardless of likes.
	seedReview(t, st, models.Review{ID: "old", UserID: "u1", MovieID: "m1", Rating: 8, IsPublic: true, Likes: 100, CreatedAt: now.Add(-10 * 24 * time.Hour)})
	// Fresh with one like: (1+1)/sqrt(0+1) = 2.
	seedReview(t, st, models.Review{ID: "fresh", UserID: "u2", MovieID: "m1", Rating: 7, IsPublic: true, Likes: 1, CreatedAt: now})
	// Six days old with three likes: (3+1)/sqrt(7) ~ 1.51.
	seedReview(t, st, models.Review{ID: "aging", UserID: "u1", MovieID: "m2", Rating: 6, IsPublic: true, Likes: 3, CreatedAt: now.Add(-6 * 24 * time.Hour)})
	seedReview(t, st, models.Review{ID: "hidden", UserID: "u2", MovieID: "m2", Rating: 9, IsPublic: false, Likes: 50, CreatedAt: now})

	got, err := svc.Trending(ctx, 10)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 2 || got[0].ID != "fresh" || got[1].ID != "aging" {
		t.Errorf("Trending = %+v", got)
	}
}

func TestWithMoviesDropsOrphans(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u1", MovieID: "gone", Rating: 6})

	got, err := svc.WithMovies(ctx)
	if err != nil {
		t.Fatalf("WithMovies: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" || got[0].MovieTitle != "Heat" || got[0].MovieYear != 1995 {
		t.Errorf("WithMovies = %+v", got)
	}
}

func TestExportForUser(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 8, Comment: "great", Tags: []string{"classic"}})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u1", MovieID: "gone", Rating: 6, Comment: "meh"})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u2", MovieID: "m1", Rating: 5})

	got, err := svc.ExportForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ExportForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("exported %d rows, want 2: %+v", len(got), got)
	}
	byTitle := map[string]models.ExportedReview{}
	for _, row := range got {
		byTitle[row.MovieTitle] = row
	}
	if row, ok := byTitle["Heat"]; !ok || row.MovieYear != 1995 || row.Rating != 8 {
		t.Errorf("Heat row = %+v", row)
	}
	if _, ok := byTitle["Unknown Movie"]; !ok {
		t.Errorf("expected orphan row under Unknown Movie, got %+v", got)
	}
}

func TestByRatingRange(t *testing.T) {
	svc, st := newTestService(t)
	seedCatalog(t, st)
	ctx := context.Background()

	seedReview(t, st, models.Review{ID: "r1", UserID: "u1", MovieID: "m1", Rating: 3})
	seedReview(t, st, models.Review{ID: "r2", UserID: "u2", MovieID: "m1", Rating: 7})
	seedReview(t, st, models.Review{ID: "r3", UserID: "u1", MovieID: "m2", Rating: 9})

	got, err := svc.ByRatingRange(ctx, 5, 8)
	if err != nil {
		t.Fatalf("ByRatingRange: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("ByRatingRange = %+v", got)
	}
}
