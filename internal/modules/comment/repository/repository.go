package repository

import (
	"context"

	"anoa.com/jornalufc/internal/entity"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	FindByArticle(ctx context.Context, articleID uint) ([]*entity.Comment, error)
	// LikeCounts returns the like count per comment id; comments without likes are absent.
	LikeCounts(ctx context.Context, commentIDs []uint) (map[uint]int64, error)
	Delete(ctx context.Context, id uint) error
	ArticleExists(ctx context.Context, articleID uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByArticle(ctx context.Context, articleID uint) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) LikeCounts(ctx context.Context, commentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	if len(commentIDs) == 0 {
		return counts, nil
	}

	type row struct {
		CommentID uint
		Count     int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&entity.CommentLike{}).
		Select("comment_id, count(*) as count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, rw := range rows {
		counts[rw.CommentID] = rw.Count
	}
	return counts, nil
}

// Delete removes the comment together with its likes.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&entity.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Comment{}, id).Error
	})
}

func (r *commentRepository) ArticleExists(ctx context.Context, articleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Article{}).Where("id = ?", articleID).Count(&count).Error
	return count > 0, err
}
