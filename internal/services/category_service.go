package services

import (
	"context"
	"strings"

	"financeflow/internal/core"
	"financeflow/internal/storage"
)

// CategoryService enforces the category lifecycle: defaults are seeded
// by migration and can be hidden but never deleted; custom categories
// with transactions require a forced delete.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(st *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: st}
}

func (s *CategoryService) List(ctx context.Context, includeHidden bool) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, includeHidden)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (core.Category, error) {
	return s.storage.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	c = normalizeCategory(c)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.storage.CreateCategory(ctx, c)
}

func (s *CategoryService) Update(ctx context.Context, c core.Category) error {
	c = normalizeCategory(c)
	if err := c.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateCategory(ctx, c)
}

func (s *CategoryService) SetHidden(ctx context.Context, id int64, hidden bool) error {
	return s.storage.SetCategoryHidden(ctx, id, hidden)
}

func (s *CategoryService) Delete(ctx context.Context, id int64, force bool) error {
	return s.storage.DeleteCategory(ctx, id, force)
}

func normalizeCategory(c core.Category) core.Category {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.ToUpper(strings.TrimPrefix(c.Color, "#"))
	return c
}
