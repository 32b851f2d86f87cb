// Package loader imports the initial data set from CSV files.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/services"

	"gorm.io/gorm"
)

// ErrAlreadyLoaded guards against loading twice. Drop the database and
// migrate again to reload.
var ErrAlreadyLoaded = errors.New("ingredient data is already loaded")

// Loader reads the CSV files of one directory into the database.
type Loader struct {
	db     *gorm.DB
	dir    string
	logger *slog.Logger
}

func New(db *gorm.DB, dir string, logger *slog.Logger) *Loader {
	return &Loader{db: db, dir: dir, logger: logger}
}

type table struct {
	file   string
	entity string
	load   func(tx *gorm.DB, row map[string]string) error
}

// tables lists the files in dependency order.
func (l *Loader) tables() []table {
	return []table{
		{"ingredients.csv", "Ingredient", loadIngredient},
		{"tag.csv", "Tag", loadTag},
		{"customuser.csv", "User", loadUser},
		{"recipe.csv", "Recipe", loadRecipe},
		{"recipetag.csv", "RecipeTag", loadRecipeTag},
		{"recipeingredient.csv", "RecipeIngredient", loadRecipeIngredient},
		{"subscription.csv", "Subscription", loadSubscription},
		{"favorite.csv", "Favorite", loadFavorite},
		{"cart.csv", "Cart", loadCart},
	}
}

// Load imports every file in one transaction. It fails with ErrAlreadyLoaded
// when ingredients exist and skips files that are missing.
func (l *Loader) Load(ctx context.Context) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Ingredient{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count ingredients: %w", err)
		}
		if count > 0 {
			l.logger.Warn("data already loaded, exiting")
			return ErrAlreadyLoaded
		}

		for _, t := range l.tables() {
			path := filepath.Join(l.dir, t.file)
			rows, err := readCSV(path)
			if errors.Is(err, os.ErrNotExist) {
				l.logger.Info("file not found, skipping", "file", t.file, "entity", t.entity)
				continue
			}
			if err != nil {
				return err
			}

			l.logger.Info("loading table", "entity", t.entity, "rows", len(rows))
			for i, row := range rows {
				if err := t.load(tx, row); err != nil {
					// header is line 1
					return fmt.Errorf("%s line %d: %w", t.file, i+2, err)
				}
			}
		}
		l.logger.Info("all data loaded")
		return nil
	})
}

// readCSV returns the records of path keyed by the header row.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
}

func column(row map[string]string, name string) (string, error) {
	v, ok := row[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	return v, nil
}

func intColumn(row map[string]string, name string) (int, error) {
	raw, err := column(row, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n, nil
}

// ref resolves an id column to an existing row of model.
func ref(tx *gorm.DB, row map[string]string, name string, model interface{}) (uint, error) {
	id, err := intColumn(row, name)
	if err != nil {
		return 0, err
	}
	if err := tx.Select("id").First(model, id).Error; err != nil {
		return 0, fmt.Errorf("column %q references %d: %w", name, id, err)
	}
	return uint(id), nil
}

func loadIngredient(tx *gorm.DB, row map[string]string) error {
	name, err := column(row, "name")
	if err != nil {
		return err
	}
	unit, err := column(row, "measurement_unit")
	if err != nil {
		return err
	}
	var ingredient models.Ingredient
	return tx.Where(models.Ingredient{Name: name, MeasurementUnit: unit}).FirstOrCreate(&ingredient).Error
}

func loadTag(tx *gorm.DB, row map[string]string) error {
	var tag models.Tag
	for _, c := range []string{"name", "color", "slug"} {
		if _, err := column(row, c); err != nil {
			return err
		}
	}
	return tx.Where(models.Tag{Name: row["name"], Color: row["color"], Slug: row["slug"]}).FirstOrCreate(&tag).Error
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func loadUser(tx *gorm.DB, row map[string]string) error {
	for _, c := range []string{"password", "email", "username", "first_name", "last_name"} {
		if _, err := column(row, c); err != nil {
			return err
		}
	}
	password := row["password"]
	if !isBcrypt(password) {
		hashed, err := services.HashPassword(password)
		if err != nil {
			return err
		}
		password = hashed
	}
	user := models.User{}
	return tx.Where(models.User{Username: row["username"]}).
		Attrs(models.User{
			Email:     row["email"],
			FirstName: row["first_name"],
			LastName:  row["last_name"],
			Password:  password,
		}).
		FirstOrCreate(&user).Error
}

func loadRecipe(tx *gorm.DB, row map[string]string) error {
	authorID, err := ref(tx, row, "author", &models.User{})
	if err != nil {
		return err
	}
	cookingTime, err := intColumn(row, "cooking_time")
	if err != nil {
		return err
	}
	for _, c := range []string{"name", "image", "text"} {
		if _, err := column(row, c); err != nil {
			return err
		}
	}
	var recipe models.Recipe
	return tx.Omit("Author").
		Where(models.Recipe{AuthorID: authorID, Name: row["name"]}).
		Attrs(models.Recipe{Image: row["image"], Text: row["text"], CookingTime: cookingTime}).
		FirstOrCreate(&recipe).Error
}

func loadRecipeTag(tx *gorm.DB, row map[string]string) error {
	recipeID, err := ref(tx, row, "recipes", &models.Recipe{})
	if err != nil {
		return err
	}
	tagID, err := ref(tx, row, "tags", &models.Tag{})
	if err != nil {
		return err
	}
	var join models.RecipeTag
	return tx.Omit("Tag").Where(models.RecipeTag{RecipeID: recipeID, TagID: tagID}).FirstOrCreate(&join).Error
}

func loadRecipeIngredient(tx *gorm.DB, row map[string]string) error {
	recipeID, err := ref(tx, row, "recipes", &models.Recipe{})
	if err != nil {
		return err
	}
	ingredientID, err := ref(tx, row, "ingredients", &models.Ingredient{})
	if err != nil {
		return err
	}
	amount, err := intColumn(row, "amount")
	if err != nil {
		return err
	}
	var join models.RecipeIngredient
	return tx.Omit("Ingredient").
		Where(models.RecipeIngredient{RecipeID: recipeID, IngredientID: ingredientID}).
		Attrs(models.RecipeIngredient{Amount: amount}).
		FirstOrCreate(&join).Error
}

func loadSubscription(tx *gorm.DB, row map[string]string) error {
	userID, err := ref(tx, row, "users", &models.User{})
	if err != nil {
		return err
	}
	authorID, err := ref(tx, row, "authors", &models.User{})
	if err != nil {
		return err
	}
	var sub models.Subscription
	return tx.Omit("User", "Author").
		Where(models.Subscription{UserID: userID, AuthorID: authorID}).
		FirstOrCreate(&sub).Error
}

// userRecipe resolves the users and recipes columns shared by favorite.csv and cart.csv.
func userRecipe(tx *gorm.DB, row map[string]string) (uint, uint, error) {
	userID, err := ref(tx, row, "users", &models.User{})
	if err != nil {
		return 0, 0, err
	}
	recipeID, err := ref(tx, row, "recipes", &models.Recipe{})
	if err != nil {
		return 0, 0, err
	}
	return userID, recipeID, nil
}

func loadFavorite(tx *gorm.DB, row map[string]string) error {
	userID, recipeID, err := userRecipe(tx, row)
	if err != nil {
		return err
	}
	var fav models.Favorite
	return tx.Omit("User", "Recipe").
		Where(models.Favorite{UserID: userID, RecipeID: recipeID}).
		FirstOrCreate(&fav).Error
}

func loadCart(tx *gorm.DB, row map[string]string) error {
	userID, recipeID, err := userRecipe(tx, row)
	if err != nil {
		return err
	}
	var cart models.Cart
	return tx.Omit("User", "Recipe").
		Where(models.Cart{UserID: userID, RecipeID: recipeID}).
		FirstOrCreate(&cart).Error
}
