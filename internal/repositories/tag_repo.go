package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data access.
type TagRepository interface {
	GetAll(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
}

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

// GetAll retrieves all tags ordered by id.
func (r *GORMTagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get all tags: %w", err)
	}
	return tags, nil
}

// GetByID retrieves a single tag.
func (r *GORMTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get tag by ID %d: %w", id, translate(err))
	}
	return &tag, nil
}

// GetByIDs retrieves the tags whose ids are listed; unknown ids are skipped.
func (r *GORMTagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by IDs: %w", err)
	}
	return tags, nil
}

// Create creates a new tag.
func (r *GORMTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", translate(err))
	}
	return nil
}
