// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package models

import (
	"strings"
	"time"
)

// Movie is a catalog entry. AverageRating and ReviewCount are rollups
// recomputed from the movie's live reviews; they are never patched
// directly.
type Movie struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Year          int       `json:"year"`
	Genres        []string  `json:"genres"`
	Description   string    `json:"description"`
	PosterURL     string    `json:"poster_url,omitempty"`
	ViewCount     int       `json:"view_count"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasGenre reports whether the movie lists the given genre
// (case-insensitive).
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
