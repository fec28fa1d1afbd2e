// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/cinelog/cinelog/internal/apperrors"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/models"
)

// GetSettings returns the stored settings record, or the defaults when
// none exists or the stored record fails to decode.
func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	start := time.Now()
	settings := models.DefaultSettings()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(settingsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &settings); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("Settings record corrupt, using defaults")
				settings = models.DefaultSettings()
			}
			return nil
		})
	})

	timed("get", "settings", start, err)
	if err != nil {
		return models.DefaultSettings(), apperrors.NewStorage("get settings", err)
	}
	return settings, nil
}

// SaveSettings replaces the settings record.
func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	start := time.Now()
	data, err := json.Marshal(settings)
	if err != nil {
		return apperrors.NewStorage("marshal settings", err)
	}

	err = s.update("save settings", func(txn *badger.Txn) error {
		return txn.Set([]byte(settingsKey), data)
	})
	timed("save", "settings", start, err)
	return err
}
