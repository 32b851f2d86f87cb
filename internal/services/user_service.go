package services

import (
	"context"
	"errors"
	"log/slog"

	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"
)

// UserService serves profiles, subscriptions and account deletion.
type UserService struct {
	users   repositories.UserRepository
	subs    repositories.SubscriptionRepository
	recipes repositories.RecipeRepository
	store   storage.Store
	present *presenter
	events  events
}

// NewUserService creates a new UserService.
func NewUserService(
	users repositories.UserRepository,
	subs repositories.SubscriptionRepository,
	recipes repositories.RecipeRepository,
	store storage.Store,
	publisher EventPublisher,
) *UserService {
	return &UserService{
		users:   users,
		subs:    subs,
		recipes: recipes,
		store:   store,
		present: &presenter{store: store, subs: subs},
		events:  events{pub: publisher},
	}
}

// List returns one page of users as seen by viewerID.
func (s *UserService) List(ctx context.Context, viewerID uint, page dto.PageRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	st, err := s.present.following(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, s.present.user(&users[i], st))
	}
	return out, total, nil
}

// Get returns the profile of id as seen by viewerID.
func (s *UserService) Get(ctx context.Context, viewerID, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, translateRepoErr(err)
	}
	st, err := s.present.following(ctx, viewerID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return s.present.user(user, st), nil
}

// DeleteAccount removes the user with everything they authored or joined, then
// their recipe images.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	authored, err := s.recipes.ListByAuthor(ctx, userID, 0)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return translateRepoErr(err)
	}
	for i := range authored {
		deleteImage(ctx, s.store, authored[i].Image)
	}
	return nil
}

// Subscribe makes userID follow authorID.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (dto.SubscriptionResponse, error) {
	if userID == authorID {
		return dto.SubscriptionResponse{}, ErrSelfSubscription
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return dto.SubscriptionResponse{}, translateRepoErr(err)
	}
	exists, err := s.subs.Exists(ctx, userID, authorID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	if exists {
		return dto.SubscriptionResponse{}, ErrAlreadySubscribed
	}
	if err := s.subs.Create(ctx, userID, authorID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return dto.SubscriptionResponse{}, ErrAlreadySubscribed
		}
		return dto.SubscriptionResponse{}, err
	}
	s.events.publish(ctx, Event{Type: EventSubscriptionAdded, UserID: userID, AuthorID: authorID})

	counts, err := s.recipes.CountByAuthors(ctx, []uint{authorID})
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	return s.subscription(ctx, author, counts[authorID], recipesLimit)
}

// Unsubscribe removes the follow relation.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return translateRepoErr(err)
	}
	if err := s.subs.Delete(ctx, userID, authorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	s.events.publish(ctx, Event{Type: EventSubscriptionRemoved, UserID: userID, AuthorID: authorID})
	return nil
}

// Subscriptions returns one page of the authors userID follows with their recipes.
// recipesLimit <= 0 embeds every recipe.
func (s *UserService) Subscriptions(ctx context.Context, userID uint, page dto.PageRequest, recipesLimit int) ([]dto.SubscriptionResponse, int64, error) {
	authors, total, err := s.subs.ListAuthors(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		sub, err := s.subscription(ctx, &authors[i], counts[authors[i].ID], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sub)
	}
	return out, total, nil
}

func (s *UserService) subscription(ctx context.Context, author *models.User, count int64, recipesLimit int) (dto.SubscriptionResponse, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	short := make([]dto.RecipeShortResponse, 0, len(recipes))
	for i := range recipes {
		short = append(short, s.present.shortRecipe(&recipes[i]))
	}
	st := &viewerState{following: map[uint]bool{author.ID: true}}
	return dto.SubscriptionResponse{
		UserResponse: s.present.user(author, st),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func deleteImage(ctx context.Context, store storage.Store, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete image", "key", key, "error", err)
	}
}
