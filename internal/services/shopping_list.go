package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"foodgram/internal/models"
)

const (
	shoppingListHeader = "-----------------------Shopping cart------------------------"
	shoppingListRule   = "------------------------------------------------------------"
)

// ShoppingList renders the cart of userID as plain text, recipes in the order
// they were added.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uint) (string, error) {
	ids, err := s.carts.RecipeIDs(ctx, userID)
	if err != nil {
		return "", err
	}
	recipes, err := s.recipes.ListByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	byID := make(map[uint]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	ordered := make([]models.Recipe, 0, len(recipes))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return RenderShoppingList(ordered), nil
}

type ingredientKey struct {
	name, unit string
}

// RenderShoppingList lists every recipe with its ingredients, then the amounts
// summed per ingredient and unit.
func RenderShoppingList(recipes []models.Recipe) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	if len(recipes) == 0 {
		b.WriteString("\nThe shopping cart is empty.\n")
		return b.String()
	}

	totals := make(map[ingredientKey]int)
	for _, r := range recipes {
		fmt.Fprintf(&b, "\nRecipe: %s", r.Name)
		for _, ri := range r.RecipeIngredients {
			fmt.Fprintf(&b, "\n - %s, %s - %d", ri.Ingredient.Name, ri.Ingredient.MeasurementUnit, ri.Amount)
			totals[ingredientKey{ri.Ingredient.Name, ri.Ingredient.MeasurementUnit}] += ri.Amount
		}
		b.WriteString("\n" + shoppingListRule)
	}

	keys := make([]ingredientKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].unit < keys[j].unit
	})
	b.WriteString("\nTotal:")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n - %s, %s - %d", k.name, k.unit, totals[k])
	}
	b.WriteString("\n")
	return b.String()
}
