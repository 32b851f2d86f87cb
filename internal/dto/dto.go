// Package dto holds the JSON request and response shapes of the API.
package dto

import "foodgram/internal/media"

// UserResponse is the public profile of a user.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RegisterRequest is the body of user registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150"`
}

// RegisterResponse echoes the created account without its password.
type RegisterResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued auth token.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// SetPasswordRequest is the body of a password change.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type TagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type TagCreateRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor,max=7"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type IngredientCreateRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// RecipeIngredientResponse is an ingredient together with the amount a recipe uses.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full read representation of a recipe.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	ImageBlurHash    string                     `json:"image_blurhash,omitempty"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is the reduced recipe returned by toggle actions and subscriptions.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is a followed author with their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// IngredientAmount references an ingredient in a recipe write.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeWriteRequest is the body of recipe create and update. On update nil
// fields keep their stored values.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uint             `json:"tags"`
	// Image is a data URI.
	Image       *string `json:"image"`
	Name        *string `json:"name"`
	Text        *string `json:"text"`
	CookingTime *int    `json:"cooking_time"`

	// ImageFile is set instead of Image for multipart uploads.
	ImageFile *media.Upload `json:"-"`
}
