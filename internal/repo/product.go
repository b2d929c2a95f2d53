package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/inventory/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, translate(err)
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, translate(err)
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Omit("Category").Create(p).Error)
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, changes map[string]any) (*models.Product, error) {
	if len(changes) > 0 {
		if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, translate(err)
		}
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchProducts is a case-insensitive substring match over name and description.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	where := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '!'", pattern, pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, translate(err)
	}

	items := make([]models.Product, 0, limit)
	if err := where.Session(&gorm.Session{}).
		Preload("Category").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, translate(err)
	}
	return total, items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
