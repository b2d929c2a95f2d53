package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/inventory/internal/models"
)

func (r *GormRepo) CreateToken(ctx context.Context, t *models.Token) error {
	return translate(r.DB.WithContext(ctx).Omit("User").Create(t).Error)
}

func (r *GormRepo) GetTokenByJTI(ctx context.Context, jti string) (*models.Token, error) {
	var token models.Token
	if err := r.DB.WithContext(ctx).Preload("User").Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *GormRepo) TouchToken(ctx context.Context, id uint, at time.Time) error {
	return translate(r.DB.WithContext(ctx).Model(&models.Token{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error)
}

func (r *GormRepo) DeleteToken(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Token{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
