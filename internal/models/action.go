package models

import "time"

// UserRecipeAction is an existence-only relation between a user and a recipe.
// Favorite and Cart are its two variants; each lives in its own table.
type UserRecipeAction interface {
	TableName() string
	Pair() (userID, recipeID uint)
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Favorite) TableName() string { return "favorites" }

func (f Favorite) Pair() (uint, uint) { return f.UserID, f.RecipeID }

// Cart marks a recipe as being in a user's shopping cart.
type Cart struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Cart) TableName() string { return "carts" }

func (c Cart) Pair() (uint, uint) { return c.UserID, c.RecipeID }
