// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package models

import "time"

// Collection bucket names.
const (
	CollectionWatched   = "watched"
	CollectionPlanned   = "planned"
	CollectionFavorites = "favorites"
)

// ValidCollection reports whether name is a known collection bucket.
func ValidCollection(name string) bool {
	switch name {
	case CollectionWatched, CollectionPlanned, CollectionFavorites:
		return true
	default:
		return false
	}
}

// User is an account record. Stats are rollups kept equal to the
// collection cardinalities and review aggregates; they are recomputed
// after every mutation, never patched.
type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"password_hash,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	FavoriteGenres []string        `json:"favorite_genres"`
	Avatar         string          `json:"avatar,omitempty"`
	Stats          UserRollup      `json:"stats"`
	Collections    Collections     `json:"collections"`
	Preferences    UserPreferences `json:"preferences"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UserRollup mirrors the user's collections and reviews.
type UserRollup struct {
	MoviesWatched   int     `json:"movies_watched"`
	MoviesPlanned   int     `json:"movies_planned"`
	MoviesFavorited int     `json:"movies_favorited"`
	TotalReviews    int     `json:"total_reviews"`
	AverageRating   float64 `json:"average_rating"`
}

// Collections holds the user's movie id buckets.
type Collections struct {
	Watched   []string `json:"watched"`
	Planned   []string `json:"planned"`
	Favorites []string `json:"favorites"`
}

// Bucket returns the slice for the named bucket, or nil for an unknown
// name.
func (c *Collections) Bucket(name string) []string {
	switch name {
	case CollectionWatched:
		return c.Watched
	case CollectionPlanned:
		return c.Planned
	case CollectionFavorites:
		return c.Favorites
	default:
		return nil
	}
}

// SetBucket replaces the named bucket. Unknown names are ignored.
func (c *Collections) SetBucket(name string, ids []string) {
	switch name {
	case CollectionWatched:
		c.Watched = ids
	case CollectionPlanned:
		c.Planned = ids
	case CollectionFavorites:
		c.Favorites = ids
	}
}

// Contains reports whether the named bucket holds movieID.
func (c *Collections) Contains(name, movieID string) bool {
	for _, id := range c.Bucket(name) {
		if id == movieID {
			return true
		}
	}
	return false
}

// UserPreferences holds per-account toggles.
type UserPreferences struct {
	Notifications bool   `json:"notifications"`
	PublicProfile bool   `json:"public_profile"`
	Theme         string `json:"theme"`
}

// DefaultPreferences returns preferences for a new account.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Notifications: true,
		PublicProfile: true,
		Theme:         "light",
	}
}

// PublicUser is a User stripped of credentials for API responses.
type PublicUser struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Bio            string          `json:"bio,omitempty"`
	FavoriteGenres []string        `json:"favorite_genres"`
	Avatar         string          `json:"avatar,omitempty"`
	Stats          UserRollup      `json:"stats"`
	Collections    Collections     `json:"collections"`
	Preferences    UserPreferences `json:"preferences"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Public returns the API-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Bio:            u.Bio,
		FavoriteGenres: u.FavoriteGenres,
		Avatar:         u.Avatar,
		Stats:          u.Stats,
		Collections:    u.Collections,
		Preferences:    u.Preferences,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
