package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/util"
	"github.com/Skotchmaster/inventory/internal/validation"
)

const msgInvalidCategory = "The selected category id is invalid."

type ProductService struct {
	Repo       ProductRepository
	Categories CategoryRepository
	Indexer    ProductIndexer
	Events     EventPublisher
}

func (s *ProductService) GetProducts(ctx context.Context, page int) (transport.Page[models.Product], error) {
	page, offset, limit := util.Calculate(page, util.DefaultPageSize)
	total, items, err := s.Repo.GetProducts(ctx, offset, limit)
	if err != nil {
		return transport.Page[models.Product]{}, err
	}
	return transport.NewPage(items, page, limit, total), nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("Product")
	}
	return p, err
}

func (s *ProductService) categoryErrors(ctx context.Context, id *uint) (map[string][]string, error) {
	if id == nil {
		return nil, nil
	}
	ok, err := s.Categories.CategoryExists(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string][]string{"category_id": {msgInvalidCategory}}, nil
	}
	return nil, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).WithField("svc", "product.create")

	req.Name = strings.TrimSpace(req.Name)
	errs := validation.Struct(&req)
	catErrs, err := s.categoryErrors(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if errs = validation.Merge(errs, catErrs); errs != nil {
		return nil, NewValidationError(errs)
	}

	p := &models.Product{
		CategoryID:  *req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrForeignKey) {
			return nil, FieldError("category_id", msgInvalidCategory)
		}
		l.WithError(err).Error("product_create_error")
		return nil, err
	}

	created, err := s.Repo.GetProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	s.index(ctx, created)
	publish(ctx, s.Events, TopicProducts, "product_created", created.ID, created.Name)
	return created, nil
}

// PatchProduct changes only the supplied fields.
func (s *ProductService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).WithField("svc", "product.patch")

	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	errs := validation.Struct(&req)
	catErrs, err := s.categoryErrors(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if errs = validation.Merge(errs, catErrs); errs != nil {
		return nil, NewValidationError(errs)
	}

	changes := map[string]any{}
	if req.CategoryID != nil {
		changes["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description.Set {
		changes["description"] = nullableString(req.Description.Value)
	}
	if req.Price != nil {
		changes["price"] = *req.Price
	}
	if req.Stock != nil {
		changes["stock"] = *req.Stock
	}

	p, err := s.Repo.UpdateProduct(ctx, id, changes)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, NewNotFoundError("Product")
		case errors.Is(err, repo.ErrForeignKey):
			return nil, FieldError("category_id", msgInvalidCategory)
		}
		l.WithError(err).Error("product_patch_error")
		return nil, err
	}

	s.index(ctx, p)
	publish(ctx, s.Events, TopicProducts, "product_updated", p.ID, p.Name)
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("Product")
		}
		return err
	}

	if s.Indexer != nil {
		if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).WithError(err).Warn("product_unindex_failed")
		}
	}
	publish(ctx, s.Events, TopicProducts, "product_deleted", id, "")
	return nil
}

// SearchProducts prefers the search index and falls back to the database.
func (s *ProductService) SearchProducts(ctx context.Context, q string, page int) (transport.Page[models.Product], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return transport.Page[models.Product]{}, FieldError("q", "The q field is required.")
	}
	page, offset, limit := util.Calculate(page, util.DefaultPageSize)

	if s.Indexer != nil {
		total, items, err := s.Indexer.SearchProducts(ctx, q, offset, limit)
		if err == nil {
			return transport.NewPage(items, page, limit, total), nil
		}
		logging.FromContext(ctx).WithError(err).Warn("search_index_failed")
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return transport.Page[models.Product]{}, err
	}
	return transport.NewPage(items, page, limit, total), nil
}

func (s *ProductService) index(ctx context.Context, p *models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("product_index_failed")
	}
}
