package repo

import (
	"context"

	"github.com/Skotchmaster/inventory/internal/models"
)

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	items := make([]models.Category, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) UpdateCategory(ctx context.Context, id uint, changes map[string]any) (*models.Category, error) {
	if len(changes) > 0 {
		if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, translate(err)
		}
	}
	return r.GetCategory(ctx, id)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CountProductsInCategory(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, translate(err)
}
