package services

import (
	"context"
	"errors"

	"foodgram/internal/dto"
	"foodgram/internal/repositories"
)

// toggle binds one user/recipe relation to its errors and event names.
type toggle struct {
	repo       repositories.ActionRepository
	errExists  error
	errMissing error
	added      string
	removed    string
}

func (s *RecipeService) add(ctx context.Context, t toggle, userID, recipeID uint) (dto.RecipeShortResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return dto.RecipeShortResponse{}, translateRepoErr(err)
	}
	exists, err := t.repo.Exists(ctx, userID, recipeID)
	if err != nil {
		return dto.RecipeShortResponse{}, err
	}
	if exists {
		return dto.RecipeShortResponse{}, t.errExists
	}
	// a concurrent add can still win the race; the unique index reports it
	if err := t.repo.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return dto.RecipeShortResponse{}, t.errExists
		}
		return dto.RecipeShortResponse{}, err
	}
	s.events.publish(ctx, Event{Type: t.added, UserID: userID, RecipeID: recipeID})
	return s.present.shortRecipe(recipe), nil
}

func (s *RecipeService) remove(ctx context.Context, t toggle, userID, recipeID uint) error {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return translateRepoErr(err)
	}
	if err := t.repo.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return t.errMissing
		}
		return err
	}
	s.events.publish(ctx, Event{Type: t.removed, UserID: userID, RecipeID: recipeID})
	return nil
}

// AddFavorite marks the recipe as favorited by userID.
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uint) (dto.RecipeShortResponse, error) {
	return s.add(ctx, s.favorite, userID, recipeID)
}

// RemoveFavorite undoes AddFavorite.
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, s.favorite, userID, recipeID)
}

// AddToCart puts the recipe in the shopping cart of userID.
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uint) (dto.RecipeShortResponse, error) {
	return s.add(ctx, s.cart, userID, recipeID)
}

// RemoveFromCart undoes AddToCart.
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, s.cart, userID, recipeID)
}
