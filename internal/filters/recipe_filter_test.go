package filters

import (
	"net/url"
	"testing"

	"foodgram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeFilter(t *testing.T) {
	q, err := url.ParseQuery("tags=breakfast&tags=dinner&tags=&author=3&is_favorited=1&is_in_shopping_cart=false&page=2")
	require.NoError(t, err)

	f, err := ParseRecipeFilter(q)
	require.NoError(t, err)
	assert.Equal(t, RecipeFilter{
		Tags:             []string{"breakfast", "dinner"},
		AuthorID:         3,
		IsFavorited:      true,
		IsInShoppingCart: false,
	}, f)
}

func TestParseRecipeFilter_Invalid(t *testing.T) {
	tests := []struct {
		query string
		param string
	}{
		{"author=abc", "author"},
		{"author=-1", "author"},
		{"is_favorited=maybe", "is_favorited"},
		{"is_in_shopping_cart=2", "is_in_shopping_cart"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			_, err = ParseRecipeFilter(q)
			var invalid *InvalidParamError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.param, invalid.Param)
		})
	}
}

func TestPrefixFirst(t *testing.T) {
	items := []models.Ingredient{
		{Name: "Brown sugar"},
		{Name: "Icing sugar"},
		{Name: "Sugar"},
		{Name: "sugar syrup"},
	}
	got := PrefixFirst(items, "SUGAR")
	names := make([]string, 0, len(got))
	for _, i := range got {
		names = append(names, i.Name)
	}
	assert.Equal(t, []string{"Sugar", "sugar syrup", "Brown sugar", "Icing sugar"}, names)
}

func TestPrefixFirst_EmptyQueryKeepsOrder(t *testing.T) {
	items := []models.Ingredient{{Name: "b"}, {Name: "a"}}
	assert.Equal(t, items, PrefixFirst(items, "  "))
}
