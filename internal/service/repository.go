package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/inventory/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type TokenRepository interface {
	CreateToken(ctx context.Context, t *models.Token) error
	GetTokenByJTI(ctx context.Context, jti string) (*models.Token, error)
	TouchToken(ctx context.Context, id uint, at time.Time) error
	DeleteToken(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CategoryExists(ctx context.Context, id uint) (bool, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, id uint, changes map[string]any) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	CountProductsInCategory(ctx context.Context, id uint) (int64, error)
}

type ProductRepository interface {
	GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id uint, changes map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}
