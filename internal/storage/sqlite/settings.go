package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/storage"
)

// GetSettings retrieves a household's settings.
func (s *SQLiteStore) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	var (
		settings   = &models.Settings{UserID: userID}
		categories string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT party_a_unit_value, party_a_max_units, party_b_unit_value, party_b_max_units,
			non_voucher_categories, updated_at
		FROM settings
		WHERE user_id = ?`,
		userID,
	).Scan(
		&settings.PartyA.UnitValue,
		&settings.PartyA.MaxUnits,
		&settings.PartyB.UnitValue,
		&settings.PartyB.MaxUnits,
		&categories,
		&settings.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settings for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if err := json.Unmarshal([]byte(categories), &settings.NonVoucherCategories); err != nil {
		return nil, fmt.Errorf("failed to decode non-voucher categories: %w", err)
	}

	return settings, nil
}

// SaveSettings inserts or replaces a household's settings.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now().Unix()

	categories := settings.NonVoucherCategories
	if categories == nil {
		categories = []string{}
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode non-voucher categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, party_a_unit_value, party_a_max_units,
			party_b_unit_value, party_b_max_units, non_voucher_categories, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			party_a_unit_value = excluded.party_a_unit_value,
			party_a_max_units = excluded.party_a_max_units,
			party_b_unit_value = excluded.party_b_unit_value,
			party_b_max_units = excluded.party_b_max_units,
			non_voucher_categories = excluded.non_voucher_categories,
			updated_at = excluded.updated_at`,
		settings.UserID,
		settings.PartyA.UnitValue,
		settings.PartyA.MaxUnits,
		settings.PartyB.UnitValue,
		settings.PartyB.MaxUnits,
		string(encoded),
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
