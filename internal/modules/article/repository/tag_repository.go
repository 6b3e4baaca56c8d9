package repository

import (
	"context"

	"anoa.com/jornalufc/internal/entity"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	FindByName(ctx context.Context, name string) (*entity.Tag, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindAll(ctx context.Context) ([]*entity.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) FindByName(ctx context.Context, name string) (*entity.Tag, error) {
	var tag entity.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepository) FindAll(ctx context.Context) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
