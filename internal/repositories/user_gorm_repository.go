package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id", id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email", email)
}

func (r *GORMUserRepository) first(ctx context.Context, column string, value interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, column+" = ?", value).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by %s %v: %w", column, value, translate(err))
	}
	return &user, nil
}

// List returns one page of users ordered by username and the total count.
func (r *GORMUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	var users []models.User
	err := r.db.WithContext(ctx).Order("username").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdatePassword overwrites the stored password hash.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for update: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the user, their recipes with all joins, their favorites,
// cart entries and subscriptions in both directions, atomically.
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipeIDs []uint
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", id).Pluck("id", &recipeIDs).Error; err != nil {
			return fmt.Errorf("failed to collect authored recipes: %w", err)
		}
		if _, err := deleteRecipeRows(tx, recipeIDs); err != nil {
			return err
		}
		for _, model := range []interface{}{&models.Favorite{}, &models.Cart{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete user actions: %w", err)
			}
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Subscription{}).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions: %w", err)
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %d not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}
