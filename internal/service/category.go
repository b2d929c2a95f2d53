package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/validation"
)

type CategoryService struct {
	Repo   CategoryRepository
	Events EventPublisher
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("Category")
	}
	return c, err
}

func (s *CategoryService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validation.Struct(&req); errs != nil {
		return nil, NewValidationError(errs)
	}

	c := &models.Category{Name: req.Name, Description: req.Description}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		logging.FromContext(ctx).WithError(err).Error("category_create_error")
		return nil, err
	}

	publish(ctx, s.Events, TopicCategories, "category_created", c.ID, c.Name)
	return c, nil
}

func (s *CategoryService) PatchCategory(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if errs := validation.Struct(&req); errs != nil {
		return nil, NewValidationError(errs)
	}

	changes := map[string]any{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description.Set {
		changes["description"] = nullableString(req.Description.Value)
	}

	c, err := s.Repo.UpdateCategory(ctx, id, changes)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFoundError("Category")
		}
		return nil, err
	}

	publish(ctx, s.Events, TopicCategories, "category_updated", c.ID, c.Name)
	return c, nil
}

// DeleteCategory refuses to remove a category that still has products.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	n, err := s.Repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return NewConflictError("category", "The category still has products.")
	}

	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return NewNotFoundError("Category")
		case errors.Is(err, repo.ErrForeignKey):
			return NewConflictError("category", "The category still has products.")
		}
		return err
	}

	publish(ctx, s.Events, TopicCategories, "category_deleted", id, "")
	return nil
}

// nullableString turns an explicit null into a NULL column value.
func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
