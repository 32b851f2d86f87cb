package models

import "time"

// Recipe is authored by a user and owns its tag and ingredient joins.
// A (name, author) pair is unique.
type Recipe struct {
	ID            uint   `gorm:"primaryKey"`
	AuthorID      uint   `gorm:"not null;index;uniqueIndex:idx_recipe_name_author"`
	Author        User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name          string `gorm:"size:200;not null;uniqueIndex:idx_recipe_name_author"`
	Image         string `gorm:"size:255;not null"` // storage key
	ImageBlurHash string `gorm:"size:64"`
	Text          string `gorm:"type:text;not null"`
	CookingTime   int    `gorm:"not null;check:cooking_time >= 1"`
	// PubDate is set once on insert and drives the default newest-first ordering.
	PubDate time.Time `gorm:"autoCreateTime;index"`

	RecipeTags        []RecipeTag        `gorm:"constraint:OnDelete:CASCADE"`
	RecipeIngredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
}

// RecipeTag links a recipe to a tag.
type RecipeTag struct {
	ID       uint `gorm:"primaryKey"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	Tag      Tag  `gorm:"constraint:OnDelete:CASCADE"`
}

// RecipeIngredient links a recipe to an ingredient with the amount used.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null;check:amount >= 1"`
}

// TagIDs returns the ids of the recipe's tags in join order.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.RecipeTags))
	for _, rt := range r.RecipeTags {
		ids = append(ids, rt.TagID)
	}
	return ids
}
