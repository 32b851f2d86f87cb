package repositories

import (
	"context"
	"fmt"
	"time"

	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository tracks logged-out auth tokens.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// PurgeExpired drops revocations whose tokens have expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// GORMTokenRepository is a GORM implementation of TokenRepository.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{db: db}
}

// Revoke is idempotent.
func (r *GORMTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	row := models.RevokedToken{ID: tokenID, ExpiresAt: expiresAt}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *GORMTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("id = ?", tokenID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}

func (r *GORMTokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
