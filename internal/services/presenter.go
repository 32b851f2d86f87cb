package services

import (
	"context"
	"fmt"

	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"
)

// viewerState holds what the requesting user has favorited, carted and followed.
// It is empty for anonymous requests, so every flag renders false.
type viewerState struct {
	favorites map[uint]bool
	cart      map[uint]bool
	following map[uint]bool
}

func anonymous() *viewerState {
	return &viewerState{}
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// presenter renders models into response shapes for one viewer.
type presenter struct {
	store     storage.Store
	favorites repositories.ActionRepository
	carts     repositories.ActionRepository
	subs      repositories.SubscriptionRepository
}

// following loads only the subscription set of viewerID.
func (p *presenter) following(ctx context.Context, viewerID uint) (*viewerState, error) {
	if viewerID == 0 {
		return anonymous(), nil
	}
	authors, err := p.subs.AuthorIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	return &viewerState{following: idSet(authors)}, nil
}

// viewer loads favorites, cart and subscriptions of viewerID.
func (p *presenter) viewer(ctx context.Context, viewerID uint) (*viewerState, error) {
	st, err := p.following(ctx, viewerID)
	if err != nil || viewerID == 0 {
		return st, err
	}
	favorites, err := p.favorites.RecipeIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	cart, err := p.carts.RecipeIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	st.favorites = idSet(favorites)
	st.cart = idSet(cart)
	return st, nil
}

func (p *presenter) user(u *models.User, st *viewerState) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: st.following[u.ID],
	}
}

func (p *presenter) recipe(r *models.Recipe, st *viewerState) dto.RecipeResponse {
	tags := make([]dto.TagResponse, 0, len(r.RecipeTags))
	for _, rt := range r.RecipeTags {
		tags = append(tags, tagResponse(&rt.Tag))
	}
	ingredients := make([]dto.RecipeIngredientResponse, 0, len(r.RecipeIngredients))
	for _, ri := range r.RecipeIngredients {
		ingredients = append(ingredients, dto.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	return dto.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           p.user(&r.Author, st),
		Ingredients:      ingredients,
		IsFavorited:      st.favorites[r.ID],
		IsInShoppingCart: st.cart[r.ID],
		Name:             r.Name,
		Image:            p.store.URL(r.Image),
		ImageBlurHash:    r.ImageBlurHash,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func (p *presenter) shortRecipe(r *models.Recipe) dto.RecipeShortResponse {
	return dto.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.store.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func tagResponse(t *models.Tag) dto.TagResponse {
	return dto.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientResponse(i *models.Ingredient) dto.IngredientResponse {
	return dto.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
