// Package filters turns request query parameters into gorm predicates.
package filters

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

// InvalidParamError reports a query parameter that could not be parsed.
type InvalidParamError struct {
	Param string
	Value string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid value %q for query parameter %q", e.Value, e.Param)
}

// RecipeFilter holds the recognized recipe list filters.
type RecipeFilter struct {
	// Tags are slugs; a recipe matches when it carries any of them.
	Tags             []string
	AuthorID         uint
	IsFavorited      bool
	IsInShoppingCart bool
}

// ParseRecipeFilter reads tags, author, is_favorited and is_in_shopping_cart.
// Unknown parameters are ignored.
func ParseRecipeFilter(q url.Values) (RecipeFilter, error) {
	var f RecipeFilter
	for _, slug := range q["tags"] {
		if slug = strings.TrimSpace(slug); slug != "" {
			f.Tags = append(f.Tags, slug)
		}
	}
	if raw := q.Get("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, &InvalidParamError{Param: "author", Value: raw}
		}
		f.AuthorID = uint(id)
	}
	var err error
	if f.IsFavorited, err = parseFlag(q, "is_favorited"); err != nil {
		return f, err
	}
	if f.IsInShoppingCart, err = parseFlag(q, "is_in_shopping_cart"); err != nil {
		return f, err
	}
	return f, nil
}

func parseFlag(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &InvalidParamError{Param: name, Value: raw}
	}
	return v, nil
}

// Apply restricts db, a query over recipes, to the filter.
// Favorite and cart restrictions need a viewer: with viewerID 0 they are not applied.
func (f RecipeFilter) Apply(db *gorm.DB, viewerID uint) *gorm.DB {
	if len(f.Tags) > 0 {
		tagged := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.Tags)
		db = db.Where("recipes.id IN (?)", tagged)
	}
	if f.AuthorID != 0 {
		db = db.Where("recipes.author_id = ?", f.AuthorID)
	}
	if viewerID == 0 {
		return db
	}
	if f.IsFavorited {
		db = db.Where("recipes.id IN (?)", actionRecipes(db, models.Favorite{}.TableName(), viewerID))
	}
	if f.IsInShoppingCart {
		db = db.Where("recipes.id IN (?)", actionRecipes(db, models.Cart{}.TableName(), viewerID))
	}
	return db
}

func actionRecipes(db *gorm.DB, table string, userID uint) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table(table).
		Select("recipe_id").
		Where("user_id = ?", userID)
}

// NewestFirst orders recipes by publication date, latest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("recipes.pub_date DESC").Order("recipes.id DESC")
}
