package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/caching"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

// PlatformStats is the super-admin dashboard summary.
type PlatformStats struct {
	TotalCompanies int `json:"total_companies"`
	TotalUsers     int `json:"total_users"`
}

const (
	settingsCacheKey = "platform:settings"
	settingsCacheTTL = 5 * time.Minute
)

// PlatformService serves the platform operator: global settings and
// cross-tenant stats.
type PlatformService interface {
	Settings(ctx context.Context) (*models.PlatformSettings, error)
	UpdateSettings(ctx context.Context, settings *models.PlatformSettings) error
	Stats(ctx context.Context) (*PlatformStats, error)
}

type platformService struct {
	settingsRepo repositories.SettingsRepository
	companyRepo  repositories.CompanyRepository
	userRepo     repositories.UserRepository
	cache        caching.CacheService
}

func NewPlatformService(settingsRepo repositories.SettingsRepository, companyRepo repositories.CompanyRepository, userRepo repositories.UserRepository, cache caching.CacheService) PlatformService {
	return &platformService{
		settingsRepo: settingsRepo,
		companyRepo:  companyRepo,
		userRepo:     userRepo,
		cache:        cache,
	}
}

func (s *platformService) Settings(ctx context.Context) (*models.PlatformSettings, error) {
	if cached, err := s.cache.GetString(ctx, settingsCacheKey); err == nil && cached != "" {
		var settings models.PlatformSettings
		if err := json.Unmarshal([]byte(cached), &settings); err == nil {
			return &settings, nil
		}
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err == pgx.ErrNoRows {
		// Defaults until the operator writes the row.
		return &models.PlatformSettings{ID: 1, PlatformCommissionRate: 0, GlobalMaintenanceMode: false}, nil
	}
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(settings); marshalErr == nil {
		if cacheErr := s.cache.SetString(ctx, settingsCacheKey, string(data), settingsCacheTTL); cacheErr != nil {
			log.Printf("WARN: settings cache write failed: %v", cacheErr)
		}
	}
	return settings, nil
}

func (s *platformService) UpdateSettings(ctx context.Context, settings *models.PlatformSettings) error {
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
		log.Printf("WARN: settings cache invalidation failed: %v", err)
	}
	return nil
}

func (s *platformService) Stats(ctx context.Context) (*PlatformStats, error) {
	companies, err := s.companyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{TotalCompanies: companies, TotalUsers: users}, nil
}
