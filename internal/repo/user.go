package repo

import (
	"context"

	"github.com/Skotchmaster/inventory/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
