package repositories

import (
	"context"

	"foodgram/internal/filters"
	"foodgram/internal/models"
)

// RecipeChanges describes a partial recipe update.
type RecipeChanges struct {
	// Fields maps column names to new values.
	Fields map[string]interface{}
	// Tags replaces the tag set when non-nil.
	Tags []uint
	// Ingredients replaces the ingredient set when non-nil.
	Ingredients []models.RecipeIngredient
}

// RecipeRepository defines the interface for recipe data access.
type RecipeRepository interface {
	List(ctx context.Context, filter filters.RecipeFilter, viewerID uint, offset, limit int) ([]models.Recipe, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	// ListByIDs loads the recipes with their ingredients; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error)
	// ListByAuthor returns the author's newest recipes; limit <= 0 means all.
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	ExistsByNameAndAuthor(ctx context.Context, name string, authorID, excludeID uint) (bool, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, id uint, changes RecipeChanges) error
	Delete(ctx context.Context, id uint) error
}
