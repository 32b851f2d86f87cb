package models

import "time"

// RevokedToken is an auth token id that was logged out before it expired.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Favorite{},
		&Cart{},
		&Subscription{},
		&RevokedToken{},
	}
}
