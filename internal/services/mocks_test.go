package services_test

import (
	"context"
	"time"

	"foodgram/internal/filters"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of repositories.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockTagRepository is a mock implementation of repositories.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// MockIngredientRepository is a mock implementation of repositories.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) Search(ctx context.Context, name string) ([]models.Ingredient, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) List(ctx context.Context, filter filters.RecipeFilter, viewerID uint, offset, limit int) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, filter, viewerID, offset, limit)
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, authorIDs)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *MockRecipeRepository) ExistsByNameAndAuthor(ctx context.Context, name string, authorID, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, authorID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, id uint, changes repositories.RecipeChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockActionRepository is a mock implementation of repositories.ActionRepository
type MockActionRepository struct {
	mock.Mock
}

func (m *MockActionRepository) Add(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockActionRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockActionRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockActionRepository) RecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of repositories.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, userID, authorID uint) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID, authorID uint) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) AuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockSubscriptionRepository) ListAuthors(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockStore is a mock implementation of storage.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return "http://testserver/media/" + key
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, v interface{}) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
