package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/models"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository implements the service.SettingsRepository interface.
// The settings table holds a single row.
type SettingsRepository struct {
	q queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// newSettingsRepositoryWithTx creates a new settings repository with a transaction
func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// Get returns the platform settings, falling back to defaults when the row
// was never saved.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	query := `
		SELECT maintenance_mode, admin_upi, admin_whatsapp, deposit_instruction,
		       withdraw_instruction, min_withdraw, referral_target, qr_code_url
		FROM settings
		WHERE id
	`

	var s models.Settings
	err := r.q.QueryRow(ctx, query).Scan(
		&s.MaintenanceMode, &s.AdminUPI, &s.AdminWhatsapp, &s.DepositInstruction,
		&s.WithdrawInstruction, &s.MinWithdraw, &s.ReferralTarget, &s.QRCodeURL,
	)
	if err == pgx.ErrNoRows {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// Update upserts the single settings row
func (r *SettingsRepository) Update(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings
		(id, maintenance_mode, admin_upi, admin_whatsapp, deposit_instruction,
		 withdraw_instruction, min_withdraw, referral_target, qr_code_url)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			maintenance_mode = EXCLUDED.maintenance_mode,
			admin_upi = EXCLUDED.admin_upi,
			admin_whatsapp = EXCLUDED.admin_whatsapp,
			deposit_instruction = EXCLUDED.deposit_instruction,
			withdraw_instruction = EXCLUDED.withdraw_instruction,
			min_withdraw = EXCLUDED.min_withdraw,
			referral_target = EXCLUDED.referral_target,
			qr_code_url = EXCLUDED.qr_code_url
	`

	_, err := r.q.Exec(ctx, query,
		s.MaintenanceMode, s.AdminUPI, s.AdminWhatsapp, s.DepositInstruction,
		s.WithdrawInstruction, s.MinWithdraw, s.ReferralTarget, s.QRCodeURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
