package repository

import (
	"context"

	"anoa.com/jornalufc/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	CategorySlug string
	TagSlug      string
}

type Repository interface {
	Create(ctx context.Context, article *entity.Article) error
	Update(ctx context.Context, article *entity.Article, replaceTags bool, gallery []entity.GalleryImage) error
	FindByID(ctx context.Context, id uint) (*entity.Article, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Article, error)
	FindAll(ctx context.Context, filter ListFilter, offset, limit int) ([]*entity.Article, error)
	// SlugExists also sees soft-deleted rows.
	SlugExists(ctx context.Context, slug string) (bool, error)
	SoftDelete(ctx context.Context, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("gallery_images.id ASC") })
}

// Create inserts the article with its tag links and gallery rows in one
// transaction. Author and Category are references only.
func (r *repository) Create(ctx context.Context, article *entity.Article) error {
	return r.db.WithContext(ctx).Omit("Author", "Category").Create(article).Error
}

func (r *repository) Update(ctx context.Context, article *entity.Article, replaceTags bool, gallery []entity.GalleryImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(article).Error; err != nil {
			return err
		}

		if replaceTags {
			assoc := tx.Model(article).Association("Tags")
			if len(article.Tags) == 0 {
				if err := assoc.Clear(); err != nil {
					return err
				}
			} else if err := assoc.Replace(append([]entity.Tag(nil), article.Tags...)); err != nil {
				return err
			}
		}

		if len(gallery) > 0 {
			for i := range gallery {
				gallery[i].ArticleID = article.ID
			}
			if err := tx.Create(&gallery).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) FindByID(ctx context.Context, id uint) (*entity.Article, error) {
	var article entity.Article
	if err := r.preloaded(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	var article entity.Article
	if err := r.preloaded(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter, offset, limit int) ([]*entity.Article, error) {
	var articles []*entity.Article
	query := r.preloaded(ctx)

	if filter.CategorySlug != "" {
		query = query.Where("category_id IN (?)",
			r.db.Model(&entity.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}

	if filter.TagSlug != "" {
		query = query.Where("id IN (?)",
			r.db.Table("article_tags").
				Select("article_tags.article_id").
				Joins("JOIN tags ON tags.id = article_tags.tag_id").
				Where("tags.slug = ?", filter.TagSlug))
	}

	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().
		Model(&entity.Article{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Article{}, id).Error
}
