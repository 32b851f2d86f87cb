package services_test

import (
	"context"
	"strings"
	"testing"

	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name, unit string, amount int) models.RecipeIngredient {
	return models.RecipeIngredient{Amount: amount, Ingredient: models.Ingredient{Name: name, MeasurementUnit: unit}}
}

func TestRenderShoppingList(t *testing.T) {
	recipes := []models.Recipe{
		{Name: "Pancakes", RecipeIngredients: []models.RecipeIngredient{line("flour", "g", 200), line("egg", "pcs", 2)}},
		{Name: "Omelette", RecipeIngredients: []models.RecipeIngredient{line("egg", "pcs", 3), line("milk", "ml", 50)}},
	}

	want := "-----------------------Shopping cart------------------------\n" +
		"Recipe: Pancakes\n" +
		" - flour, g - 200\n" +
		" - egg, pcs - 2\n" +
		"------------------------------------------------------------\n" +
		"Recipe: Omelette\n" +
		" - egg, pcs - 3\n" +
		" - milk, ml - 50\n" +
		"------------------------------------------------------------\n" +
		"Total:\n" +
		" - egg, pcs - 5\n" +
		" - flour, g - 200\n" +
		" - milk, ml - 50\n"
	assert.Equal(t, want, services.RenderShoppingList(recipes))
}

func TestRenderShoppingList_Empty(t *testing.T) {
	assert.Equal(t,
		"-----------------------Shopping cart------------------------\nThe shopping cart is empty.\n",
		services.RenderShoppingList(nil))
}

func TestRecipeService_ShoppingList(t *testing.T) {
	ctx := context.Background()
	svc, m := newRecipeService()

	m.carts.On("RecipeIDs", ctx, uint(1)).Return([]uint{5, 3}, nil).Once()
	m.recipes.On("ListByIDs", ctx, []uint{5, 3}).Return([]models.Recipe{
		{ID: 3, Name: "Second", RecipeIngredients: []models.RecipeIngredient{line("salt", "g", 1)}},
		{ID: 5, Name: "First", RecipeIngredients: []models.RecipeIngredient{line("salt", "g", 2)}},
	}, nil).Once()

	text, err := svc.ShoppingList(ctx, 1)
	require.NoError(t, err)
	assert.Less(t, strings.Index(text, "Recipe: First"), strings.Index(text, "Recipe: Second"))
	assert.Contains(t, text, "Total:\n - salt, g - 3\n")
}

