package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/category/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/slug"
	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, actor *entity.User, name string) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	DeleteCategory(ctx context.Context, actor *entity.User, id uint) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

// CreateCategory is idempotent on the slug: an existing category with the
// same slug is returned unchanged.
func (s *categoryService) CreateCategory(ctx context.Context, actor *entity.User, name string) (*entity.Category, error) {
	if !policy.CanPerform(actor.Actor(), policy.ActionManageCategory, policy.Target{}) {
		return nil, fmt.Errorf("only professors and admins manage categories: %w", apperror.ErrForbidden)
	}

	name = strings.TrimSpace(name)
	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, fmt.Errorf("category name must contain letters or digits: %w", apperror.ErrInvalidInput)
	}

	if existing, err := s.repo.FindBySlug(ctx, categorySlug); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &entity.Category{Name: name, Slug: categorySlug}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, findErr := s.repo.FindBySlug(ctx, categorySlug); findErr == nil {
				return existing, nil
			}
			return nil, fmt.Errorf("category %q already exists: %w", name, apperror.ErrBadRequest)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor *entity.User, id uint) error {
	if !policy.CanPerform(actor.Actor(), policy.ActionManageCategory, policy.Target{}) {
		return fmt.Errorf("only professors and admins manage categories: %w", apperror.ErrForbidden)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}
