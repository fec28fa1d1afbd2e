// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package models

// Settings holds the instance-wide display preferences. A single record
// is stored; reads fall back to DefaultSettings when it is absent.
type Settings struct {
	Theme              string `json:"theme"`
	Language           string `json:"language"`
	MoviesPerPage      int    `json:"movies_per_page"`
	DefaultGenreFilter string `json:"default_genre_filter"`
	DefaultSortBy      string `json:"default_sort_by"`
	ShowRatings        bool   `json:"show_ratings"`
	ShowDescriptions   bool   `json:"show_descriptions"`
	Autoplay           bool   `json:"autoplay"`
}

// DefaultSettings returns the out-of-the-box settings record.
func DefaultSettings() Settings {
	return Settings{
		Theme:              "light",
		Language:           "en",
		MoviesPerPage:      12,
		DefaultGenreFilter: "all",
		DefaultSortBy:      "rating",
		ShowRatings:        true,
		ShowDescriptions:   true,
		Autoplay:           false,
	}
}
