package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActionRepository stores one existence-only user/recipe relation.
type ActionRepository interface {
	// Add inserts the pair; an existing pair yields ErrDuplicate.
	Add(ctx context.Context, userID, recipeID uint) error
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	// Remove deletes the pair; a missing pair yields ErrNotFound.
	Remove(ctx context.Context, userID, recipeID uint) error
	// RecipeIDs lists the user's recipe ids in the order they were added.
	RecipeIDs(ctx context.Context, userID uint) ([]uint, error)
}

// GORMActionRepository is a GORM implementation of ActionRepository shared by
// favorites and cart entries.
type GORMActionRepository struct {
	db     *gorm.DB
	kind   string
	newRow func(userID, recipeID uint) models.UserRecipeAction
}

// NewGORMFavoriteRepository returns the favorites relation.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMActionRepository {
	return &GORMActionRepository{
		db:   db,
		kind: "favorite",
		newRow: func(userID, recipeID uint) models.UserRecipeAction {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

// NewGORMCartRepository returns the shopping cart relation.
func NewGORMCartRepository(db *gorm.DB) *GORMActionRepository {
	return &GORMActionRepository{
		db:   db,
		kind: "cart entry",
		newRow: func(userID, recipeID uint) models.UserRecipeAction {
			return &models.Cart{UserID: userID, RecipeID: recipeID}
		},
	}
}

func (r *GORMActionRepository) table() string {
	return r.newRow(0, 0).TableName()
}

func (r *GORMActionRepository) Add(ctx context.Context, userID, recipeID uint) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(r.newRow(userID, recipeID)).Error; err != nil {
		return fmt.Errorf("failed to add %s: %w", r.kind, translate(err))
	}
	return nil
}

func (r *GORMActionRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(r.table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", r.kind, err)
	}
	return n > 0, nil
}

func (r *GORMActionRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0))
	if res.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", r.kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s for recipe %d not found: %w", r.kind, recipeID, ErrNotFound)
	}
	return nil
}

func (r *GORMActionRepository) RecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table(r.table()).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s recipes: %w", r.kind, err)
	}
	return ids, nil
}
