package services

import (
	"context"
	"errors"

	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// TagService handles business logic related to tags.
type TagService struct {
	repo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(repo repositories.TagRepository) *TagService {
	return &TagService{
		repo: repo,
	}
}

// GetAllTags retrieves all tags.
func (s *TagService) GetAllTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, tagResponse(&tags[i]))
	}
	return out, nil
}

// GetTagByID retrieves a single tag by its ID.
func (s *TagService) GetTagByID(ctx context.Context, id uint) (dto.TagResponse, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.TagResponse{}, translateRepoErr(err)
	}
	return tagResponse(tag), nil
}

// CreateTag creates a new tag; name, color and slug must each be unused.
func (s *TagService) CreateTag(ctx context.Context, req dto.TagCreateRequest) (dto.TagResponse, error) {
	tag := &models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return dto.TagResponse{}, NewValidationError(NonFieldErrors, "A tag with this name, color or slug already exists.")
		}
		return dto.TagResponse{}, err
	}
	return tagResponse(tag), nil
}
