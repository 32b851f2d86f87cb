package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines the interface for follower relations.
type SubscriptionRepository interface {
	// Create inserts the pair; an existing pair yields ErrDuplicate.
	Create(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	// Delete removes the pair; a missing pair yields ErrNotFound.
	Delete(ctx context.Context, userID, authorID uint) error
	// AuthorIDs lists every author the user follows.
	AuthorIDs(ctx context.Context, userID uint) ([]uint, error)
	// ListAuthors returns one page of followed authors ordered by username.
	ListAuthors(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error)
}

// GORMSubscriptionRepository is a GORM implementation of SubscriptionRepository.
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewGORMSubscriptionRepository creates a new instance of GORMSubscriptionRepository.
func NewGORMSubscriptionRepository(db *gorm.DB) *GORMSubscriptionRepository {
	return &GORMSubscriptionRepository{db: db}
}

func (r *GORMSubscriptionRepository) Create(ctx context.Context, userID, authorID uint) error {
	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", translate(err))
	}
	return nil
}

func (r *GORMSubscriptionRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return n > 0, nil
}

func (r *GORMSubscriptionRepository) Delete(ctx context.Context, userID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subscription to author %d not found: %w", authorID, ErrNotFound)
	}
	return nil
}

func (r *GORMSubscriptionRepository) AuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed authors: %w", err)
	}
	return ids, nil
}

func (r *GORMSubscriptionRepository) ListAuthors(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	followed := func() *gorm.DB {
		sub := r.db.WithContext(ctx).Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", userID)
		return r.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", sub)
	}

	var total int64
	if err := followed().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	var authors []models.User
	q := followed().Order("username").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return authors, total, nil
}
