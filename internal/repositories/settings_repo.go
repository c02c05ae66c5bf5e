package repositories

import (
	"context"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Upsert(ctx context.Context, settings *models.PlatformSettings) error
}

type settingsRepo struct {
	db DB
}

func NewSettingsRepo(db DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// Get returns the singleton settings row, falling back to defaults when
// the row has never been written.
func (r *settingsRepo) Get(ctx context.Context) (*models.PlatformSettings, error) {
	settings := &models.PlatformSettings{}
	query := `
		SELECT id, platform_commission_rate, global_maintenance_mode, support_email, created_at, updated_at
		FROM platform_settings
		WHERE id = 1
	`
	err := r.db.QueryRow(ctx, query).Scan(&settings.ID, &settings.PlatformCommissionRate, &settings.GlobalMaintenanceMode, &settings.SupportEmail, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, settings *models.PlatformSettings) error {
	query := `
		INSERT INTO platform_settings (id, platform_commission_rate, global_maintenance_mode, support_email, created_at, updated_at)
		VALUES (1, $1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET platform_commission_rate = EXCLUDED.platform_commission_rate,
		    global_maintenance_mode = EXCLUDED.global_maintenance_mode,
		    support_email = EXCLUDED.support_email,
		    updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, settings.PlatformCommissionRate, settings.GlobalMaintenanceMode, settings.SupportEmail)
	return err
}
