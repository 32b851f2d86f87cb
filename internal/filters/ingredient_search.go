package filters

import (
	"sort"
	"strings"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// IngredientSearch restricts db, a query over ingredients, to names containing
// name, ignoring case. Results are ordered by name.
func IngredientSearch(db *gorm.DB, name string) *gorm.DB {
	key := models.SearchKey(name)
	if key != "" {
		db = db.Where(`search_name LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(key)+"%")
	}
	return db.Order("name").Order("id")
}

// PrefixFirst moves ingredients whose name starts with name ahead of the
// substring matches, keeping the existing order inside each group.
func PrefixFirst(ingredients []models.Ingredient, name string) []models.Ingredient {
	key := models.SearchKey(name)
	if key == "" {
		return ingredients
	}
	sort.SliceStable(ingredients, func(i, j int) bool {
		pi := strings.HasPrefix(models.SearchKey(ingredients[i].Name), key)
		pj := strings.HasPrefix(models.SearchKey(ingredients[j].Name), key)
		return pi && !pj
	})
	return ingredients
}
