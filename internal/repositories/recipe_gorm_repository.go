package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/filters"
	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").
		Preload("RecipeTags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("RecipeTags.Tag").
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("RecipeIngredients.Ingredient")
}

// List returns one page of filtered recipes, newest first, and the filtered total.
func (r *GORMRecipeRepository) List(ctx context.Context, filter filters.RecipeFilter, viewerID uint, offset, limit int) ([]models.Recipe, int64, error) {
	base := func() *gorm.DB {
		return filter.Apply(r.db.WithContext(ctx).Model(&models.Recipe{}), viewerID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	q := withDetails(filters.NewestFirst(base())).Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// GetByID retrieves a recipe with author, tags and ingredients.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, translate(err))
	}
	return &recipe, nil
}

func (r *GORMRecipeRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if len(ids) == 0 {
		return recipes, nil
	}
	err := r.db.WithContext(ctx).
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("RecipeIngredients.Ingredient").
		Where("id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes by IDs: %w", err)
	}
	return recipes, nil
}

func (r *GORMRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := filters.NewestFirst(r.db.WithContext(ctx).Where("author_id = ?", authorID))
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

// CountByAuthors returns recipe counts keyed by author id; authors without
// recipes are absent from the map.
func (r *GORMRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes by author: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ExistsByNameAndAuthor reports whether the author already has a recipe with
// this name, ignoring excludeID when it is not zero.
func (r *GORMRecipeRepository) ExistsByNameAndAuthor(ctx context.Context, name string, authorID, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ? AND name = ?", authorID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe name: %w", err)
	}
	return n > 0, nil
}

// Create inserts the recipe and all of its tag and ingredient joins in one transaction.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", translate(err))
		}
		tags, err := insertTags(tx, recipe.ID, recipe.TagIDs())
		if err != nil {
			return err
		}
		recipe.RecipeTags = tags
		for i := range recipe.RecipeIngredients {
			recipe.RecipeIngredients[i].RecipeID = recipe.ID
		}
		if len(recipe.RecipeIngredients) > 0 {
			if err := tx.Omit(clause.Associations).Create(&recipe.RecipeIngredients).Error; err != nil {
				return fmt.Errorf("failed to create recipe ingredients: %w", translate(err))
			}
		}
		return nil
	})
}

// Update applies changes in one transaction. The resulting tag and ingredient
// sets equal the submitted ones exactly.
func (r *GORMRecipeRepository) Update(ctx context.Context, id uint, changes RecipeChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Recipe{}, id).Error; err != nil {
			return fmt.Errorf("recipe with ID %d not found for update: %w", id, translate(err))
		}
		if len(changes.Fields) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(changes.Fields).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", translate(err))
			}
		}
		if changes.Tags != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
				return fmt.Errorf("failed to clear recipe tags: %w", err)
			}
			if _, err := insertTags(tx, id, changes.Tags); err != nil {
				return err
			}
		}
		if changes.Ingredients != nil {
			return replaceIngredients(tx, id, changes.Ingredients)
		}
		return nil
	})
}

func insertTags(tx *gorm.DB, recipeID uint, tagIDs []uint) ([]models.RecipeTag, error) {
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe tags: %w", translate(err))
	}
	return rows, nil
}

// replaceIngredients drops joins missing from rows and upserts the amount of the rest.
func replaceIngredients(tx *gorm.DB, recipeID uint, rows []models.RecipeIngredient) error {
	stale := tx.Where("recipe_id = ?", recipeID)
	if len(rows) > 0 {
		keep := make([]uint, 0, len(rows))
		for _, row := range rows {
			keep = append(keep, row.IngredientID)
		}
		stale = stale.Where("ingredient_id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to delete stale recipe ingredients: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].RecipeID = recipeID
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "ingredient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount"}),
	}).Omit(clause.Associations).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert recipe ingredients: %w", translate(err))
	}
	return nil
}

// Delete removes the recipe with its joins, favorites and cart entries.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteRecipeRows(tx, []uint{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("recipe with ID %d not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// deleteRecipeRows deletes recipes and every row referencing them inside tx.
// It returns the number of recipes removed.
func deleteRecipeRows(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	dependents := []interface{}{
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.Favorite{},
		&models.Cart{},
	}
	for _, model := range dependents {
		if err := tx.Where("recipe_id IN ?", ids).Delete(model).Error; err != nil {
			return 0, fmt.Errorf("failed to delete recipe dependents: %w", err)
		}
	}
	res := tx.Where("id IN ?", ids).Delete(&models.Recipe{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete recipes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
