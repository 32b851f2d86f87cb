package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram/internal/dto"
	"foodgram/internal/filters"
	"foodgram/internal/media"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"
)

const maxRecipeNameLength = 200

// RecipeService handles recipes, their favorite and cart toggles and the shopping list.
type RecipeService struct {
	recipes     repositories.RecipeRepository
	tags        repositories.TagRepository
	ingredients repositories.IngredientRepository
	carts       repositories.ActionRepository
	store       storage.Store
	images      *media.Processor
	present     *presenter
	events      events

	favorite toggle
	cart     toggle
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	recipes repositories.RecipeRepository,
	tags repositories.TagRepository,
	ingredients repositories.IngredientRepository,
	favorites, carts repositories.ActionRepository,
	subs repositories.SubscriptionRepository,
	store storage.Store,
	images *media.Processor,
	publisher EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		carts:       carts,
		store:       store,
		images:      images,
		present:     &presenter{store: store, favorites: favorites, carts: carts, subs: subs},
		events:      events{pub: publisher},
		favorite: toggle{
			repo:       favorites,
			errExists:  ErrAlreadyFavorited,
			errMissing: ErrNotFavorited,
			added:      EventFavoriteAdded,
			removed:    EventFavoriteRemoved,
		},
		cart: toggle{
			repo:       carts,
			errExists:  ErrAlreadyInCart,
			errMissing: ErrNotInCart,
			added:      EventCartAdded,
			removed:    EventCartRemoved,
		},
	}
}

// List returns one filtered page of recipes, newest first, as seen by viewerID.
func (s *RecipeService) List(ctx context.Context, viewerID uint, filter filters.RecipeFilter, page dto.PageRequest) ([]dto.RecipeResponse, int64, error) {
	recipes, total, err := s.recipes.List(ctx, filter, viewerID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	st, err := s.present.viewer(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, s.present.recipe(&recipes[i], st))
	}
	return out, total, nil
}

// Get returns one recipe as seen by viewerID.
func (s *RecipeService) Get(ctx context.Context, viewerID, id uint) (dto.RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return dto.RecipeResponse{}, translateRepoErr(err)
	}
	return s.render(ctx, viewerID, recipe)
}

func (s *RecipeService) render(ctx context.Context, viewerID uint, recipe *models.Recipe) (dto.RecipeResponse, error) {
	st, err := s.present.viewer(ctx, viewerID)
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	return s.present.recipe(recipe, st), nil
}

// recipeInput is a validated RecipeWriteRequest.
type recipeInput struct {
	fields      map[string]interface{}
	tags        []uint
	ingredients []models.RecipeIngredient
	upload      *media.Upload
}

// parseWrite validates req. With partial set, absent fields are allowed.
func (s *RecipeService) parseWrite(ctx context.Context, req dto.RecipeWriteRequest, partial bool) (*recipeInput, error) {
	in := &recipeInput{fields: make(map[string]interface{})}
	verr := &ValidationError{}
	const required = "This field is required."

	switch {
	case req.Name != nil:
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			verr.Add("name", "This field may not be blank.")
		} else if utf8.RuneCountInString(name) > maxRecipeNameLength {
			verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxRecipeNameLength))
		}
		in.fields["name"] = name
	case !partial:
		verr.Add("name", required)
	}

	switch {
	case req.Text != nil:
		if strings.TrimSpace(*req.Text) == "" {
			verr.Add("text", "This field may not be blank.")
		}
		in.fields["text"] = *req.Text
	case !partial:
		verr.Add("text", required)
	}

	switch {
	case req.CookingTime != nil:
		if *req.CookingTime < 1 {
			verr.Add("cooking_time", "Ensure this value is greater than or equal to 1.")
		}
		in.fields["cooking_time"] = *req.CookingTime
	case !partial:
		verr.Add("cooking_time", required)
	}

	switch {
	case req.ImageFile != nil:
		in.upload = req.ImageFile
	case req.Image != nil:
		upload, err := media.DecodeDataURI(*req.Image)
		if err != nil {
			verr.Add("image", err.Error())
		} else {
			in.upload = &upload
		}
	case !partial:
		verr.Add("image", required)
	}

	switch {
	case req.Tags != nil:
		in.tags = s.checkTags(ctx, req.Tags, verr)
	case !partial:
		verr.Add("tags", required)
	}

	switch {
	case req.Ingredients != nil:
		in.ingredients = s.checkIngredients(ctx, req.Ingredients, verr)
	case !partial:
		verr.Add("ingredients", required)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return in, nil
}

// checkTags rejects empty lists, repeated ids anywhere in the list and unknown tags.
func (s *RecipeService) checkTags(ctx context.Context, ids []uint, verr *ValidationError) []uint {
	if len(ids) == 0 {
		verr.Add("tags", "At least one tag is required.")
		return nil
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			verr.Add("tags", fmt.Sprintf("Tag %d is listed more than once.", id))
			return nil
		}
		seen[id] = true
	}
	found, err := s.tags.GetByIDs(ctx, ids)
	if err != nil {
		verr.Add("tags", "Tags could not be checked.")
		return nil
	}
	known := make(map[uint]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			verr.Add("tags", fmt.Sprintf("Invalid pk %d - object does not exist.", id))
		}
	}
	return ids
}

// checkIngredients rejects empty lists, repeated ids, amounts below 1 and unknown ingredients.
func (s *RecipeService) checkIngredients(ctx context.Context, items []dto.IngredientAmount, verr *ValidationError) []models.RecipeIngredient {
	if len(items) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
		return nil
	}
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			verr.Add("ingredients", fmt.Sprintf("Ingredient %d is listed more than once.", item.ID))
			return nil
		}
		seen[item.ID] = true
		if item.Amount < 1 {
			verr.Add("ingredients", fmt.Sprintf("Amount of ingredient %d must be at least 1.", item.ID))
		}
		ids = append(ids, item.ID)
		rows = append(rows, models.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	found, err := s.ingredients.GetByIDs(ctx, ids)
	if err != nil {
		verr.Add("ingredients", "Ingredients could not be checked.")
		return nil
	}
	known := make(map[uint]bool, len(found))
	for _, i := range found {
		known[i.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			verr.Add("ingredients", fmt.Sprintf("Invalid pk %d - object does not exist.", id))
		}
	}
	return rows
}

// storeImage processes and saves upload, returning its storage key and blurhash.
func (s *RecipeService) storeImage(ctx context.Context, upload *media.Upload) (string, string, error) {
	img, err := s.images.Process(*upload)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) || errors.Is(err, media.ErrUnsupportedType) {
			return "", "", NewValidationError("image", err.Error())
		}
		return "", "", err
	}
	key, err := media.NewFileName(img.Ext)
	if err != nil {
		return "", "", err
	}
	if err := s.store.Save(ctx, key, img.Data, img.ContentType); err != nil {
		return "", "", err
	}
	return key, img.BlurHash, nil
}

func (s *RecipeService) checkName(ctx context.Context, name string, authorID, excludeID uint) error {
	exists, err := s.recipes.ExistsByNameAndAuthor(ctx, name, authorID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrRecipeExists
	}
	return nil
}

// Create stores a recipe authored by authorID.
func (s *RecipeService) Create(ctx context.Context, authorID uint, req dto.RecipeWriteRequest) (dto.RecipeResponse, error) {
	in, err := s.parseWrite(ctx, req, false)
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	name := in.fields["name"].(string)
	if err := s.checkName(ctx, name, authorID, 0); err != nil {
		return dto.RecipeResponse{}, err
	}

	key, blurHash, err := s.storeImage(ctx, in.upload)
	if err != nil {
		return dto.RecipeResponse{}, err
	}

	recipe := &models.Recipe{
		AuthorID:          authorID,
		Name:              name,
		Image:             key,
		ImageBlurHash:     blurHash,
		Text:              in.fields["text"].(string),
		CookingTime:       in.fields["cooking_time"].(int),
		RecipeIngredients: in.ingredients,
	}
	for _, id := range in.tags {
		recipe.RecipeTags = append(recipe.RecipeTags, models.RecipeTag{TagID: id})
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		deleteImage(ctx, s.store, key)
		if errors.Is(err, repositories.ErrDuplicate) {
			return dto.RecipeResponse{}, ErrRecipeExists
		}
		return dto.RecipeResponse{}, err
	}
	s.events.publish(ctx, Event{Type: EventRecipeCreated, UserID: authorID, RecipeID: recipe.ID})
	return s.Get(ctx, authorID, recipe.ID)
}

// authored loads recipe id and checks that userID wrote it.
func (s *RecipeService) authored(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

// Update applies a partial change; only the author may update. Submitted tag
// and ingredient lists replace the stored ones.
func (s *RecipeService) Update(ctx context.Context, userID, id uint, req dto.RecipeWriteRequest) (dto.RecipeResponse, error) {
	recipe, err := s.authored(ctx, userID, id)
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	in, err := s.parseWrite(ctx, req, true)
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	if name, ok := in.fields["name"].(string); ok && name != recipe.Name {
		if err := s.checkName(ctx, name, userID, id); err != nil {
			return dto.RecipeResponse{}, err
		}
	}

	var newKey string
	if in.upload != nil {
		key, blurHash, err := s.storeImage(ctx, in.upload)
		if err != nil {
			return dto.RecipeResponse{}, err
		}
		newKey = key
		in.fields["image"] = key
		in.fields["image_blur_hash"] = blurHash
	}

	err = s.recipes.Update(ctx, id, repositories.RecipeChanges{
		Fields:      in.fields,
		Tags:        in.tags,
		Ingredients: in.ingredients,
	})
	if err != nil {
		deleteImage(ctx, s.store, newKey)
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return dto.RecipeResponse{}, ErrRecipeExists
		case errors.Is(err, repositories.ErrNotFound):
			return dto.RecipeResponse{}, translateRepoErr(err)
		}
		return dto.RecipeResponse{}, err
	}
	if newKey != "" {
		deleteImage(ctx, s.store, recipe.Image)
	}
	s.events.publish(ctx, Event{Type: EventRecipeUpdated, UserID: userID, RecipeID: id})
	return s.Get(ctx, userID, id)
}

// Delete removes a recipe; only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	recipe, err := s.authored(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return translateRepoErr(err)
	}
	deleteImage(ctx, s.store, recipe.Image)
	s.events.publish(ctx, Event{Type: EventRecipeDeleted, UserID: userID, RecipeID: id})
	return nil
}
