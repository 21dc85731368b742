package repository

import (
	"context"

	"gorm.io/gorm"

	"reelforge/internal/model"
)

// userListColumns leave out password_hash: listings never verify credentials.
var userListColumns = []string{"id", "name", "email", "role", "created_at", "updated_at"}

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create inserts user and returns gorm.ErrDuplicatedKey when the email is taken.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail expects an already normalized (trimmed, lower-cased) email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns every user without password hashes, newest account first.
	List(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// findOne returns gorm.ErrRecordNotFound when nothing matches.
func (r *userRepository) findOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List breaks created_at ties by id so the admin listing is stable between calls.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := r.db.WithContext(ctx).
		Select(userListColumns).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
