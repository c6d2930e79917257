package service

import (
	"context"
	"strings"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/category"
)

// CategoryService lists and creates catalog categories.
type CategoryService struct {
	repo    category.Repository
	monitor *Monitor
}

func NewCategoryService(repo category.Repository) *CategoryService {
	return &CategoryService{repo: repo, monitor: GetMonitor()}
}

func (s *CategoryService) ListAll(ctx context.Context) ([]*category.Category, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		s.monitor.RecordDBError()
		return nil, err
	}
	return list, nil
}

func (s *CategoryService) Create(ctx context.Context, c *category.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return NewValidationError("name is required")
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.monitor.RecordDBError()
		return err
	}
	return nil
}
