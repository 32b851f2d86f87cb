package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/filters"
	"foodgram/internal/models"

	"gorm.io/gorm"
)

// IngredientRepository defines the interface for ingredient data access.
type IngredientRepository interface {
	// Search lists ingredients whose name contains name, prefix matches first.
	// An empty name lists everything.
	Search(ctx context.Context, name string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
}

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{db: db}
}

func (r *GORMIngredientRepository) Search(ctx context.Context, name string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := filters.IngredientSearch(r.db.WithContext(ctx).Model(&models.Ingredient{}), name)
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return filters.PrefixFirst(ingredients, name), nil
}

func (r *GORMIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredient by ID %d: %w", id, translate(err))
	}
	return &ingredient, nil
}

func (r *GORMIngredientRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by IDs: %w", err)
	}
	return ingredients, nil
}

// Create inserts an ingredient; a repeated (name, unit) pair yields ErrDuplicate.
func (r *GORMIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return fmt.Errorf("failed to create ingredient: %w", translate(err))
	}
	return nil
}
