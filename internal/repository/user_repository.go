package repository

import (
	"context"                 // Request scoping
	"skydesk/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserRepository provides access to users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the user with exactly this email, or ErrNotFound
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByID returns the user with the given id, or ErrNotFound
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create inserts user and fills in its ID. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}
