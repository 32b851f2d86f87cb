package services

import (
	"context"
	"errors"

	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// IngredientService handles business logic related to ingredients.
type IngredientService struct {
	repo repositories.IngredientRepository
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(repo repositories.IngredientRepository) *IngredientService {
	return &IngredientService{repo: repo}
}

// Search lists ingredients matching name; an empty name lists all of them.
func (s *IngredientService) Search(ctx context.Context, name string) ([]dto.IngredientResponse, error) {
	ingredients, err := s.repo.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, ingredientResponse(&ingredients[i]))
	}
	return out, nil
}

func (s *IngredientService) GetByID(ctx context.Context, id uint) (dto.IngredientResponse, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.IngredientResponse{}, translateRepoErr(err)
	}
	return ingredientResponse(ingredient), nil
}

func (s *IngredientService) Create(ctx context.Context, req dto.IngredientCreateRequest) (dto.IngredientResponse, error) {
	ingredient := &models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.repo.Create(ctx, ingredient); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return dto.IngredientResponse{}, NewValidationError(NonFieldErrors, "An ingredient with this name and measurement unit already exists.")
		}
		return dto.IngredientResponse{}, err
	}
	return ingredientResponse(ingredient), nil
}
