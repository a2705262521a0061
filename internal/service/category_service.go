package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/policy"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const (
	categoryCacheKey = "categories:active"
	categoryCacheTTL = 5 * time.Minute
)

// CategoryService manages ticket categories. Mutations are admin-only;
// the active list is public and cached.
type CategoryService struct {
	categories repository.CategoryRepository
	cache      *redis.Client
	logger     *zap.Logger
}

// NewCategoryService constructs the service. cache may be nil.
func NewCategoryService(categories repository.CategoryRepository, cache *redis.Client, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, cache: cache, logger: logger}
}

// CategoryInput describes create/update payloads.
type CategoryInput struct {
	Name     string
	IsActive *bool
}

// ListActive returns active categories for the public ticket form.
func (s *CategoryService) ListActive(ctx context.Context) ([]domain.Category, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	categories, err := s.categories.List(ctx, true)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.fillCache(ctx, categories)
	return categories, nil
}

// ListAll returns every category for the admin panel.
func (s *CategoryService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Category, error) {
	if !policy.Allows(actor, policy.OpCategoryManage, "") {
		return nil, apperrors.NewForbidden("admin role required")
	}
	categories, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, actor domain.Actor, input CategoryInput) (*domain.Category, error) {
	if !policy.Allows(actor, policy.OpCategoryManage, "") {
		return nil, apperrors.NewForbidden("admin role required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{Name: name, IsActive: true}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.dropCache(ctx)
	return category, nil
}

// Update renames or toggles a category.
func (s *CategoryService) Update(ctx context.Context, actor domain.Actor, id string, input CategoryInput) (*domain.Category, error) {
	if !policy.Allows(actor, policy.OpCategoryManage, "") {
		return nil, apperrors.NewForbidden("admin role required")
	}
	category, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.dropCache(ctx)
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !policy.Allows(actor, policy.OpCategoryManage, "") {
		return apperrors.NewForbidden("admin role required")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	s.dropCache(ctx)
	return nil
}

func (s *CategoryService) fetch(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

func (s *CategoryService) fromCache(ctx context.Context) ([]domain.Category, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, categoryCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var categories []domain.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false
	}
	return categories, true
}

func (s *CategoryService) fillCache(ctx context.Context, categories []domain.Category) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, categoryCacheKey, raw, categoryCacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("category cache write failed", zap.Error(err))
	}
}

func (s *CategoryService) dropCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, categoryCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Debug("category cache invalidation failed", zap.Error(err))
	}
}
