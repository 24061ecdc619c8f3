package repository

import (
	"career_compass_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository reads the identity records mirrored from the identity
// provider.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

// FirstOrCreateByEmail is used by the token command to mint identities for
// local testing.
func (r *UserRepository) FirstOrCreateByEmail(ctx context.Context, email, name string) (*model.User, error) {
	user := model.User{Email: email, Name: name}
	err := r.DB.WithContext(ctx).Where("email = ?", email).FirstOrCreate(&user).Error
	return &user, err
}
