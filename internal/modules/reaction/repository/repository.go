package repository

import (
	"context"

	"anoa.com/jornalufc/internal/entity"
	"gorm.io/gorm"
)

type LikeRepository interface {
	// ToggleArticleLike flips the like and returns the new state with the
	// article's like count.
	ToggleArticleLike(ctx context.Context, userID, articleID uint) (bool, int64, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uint) (bool, int64, error)
	ArticleExists(ctx context.Context, articleID uint) (bool, error)
	CommentExists(ctx context.Context, commentID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) ToggleArticleLike(ctx context.Context, userID, articleID uint) (bool, int64, error) {
	like := &entity.ArticleLike{UserID: userID, ArticleID: articleID}
	return r.toggle(ctx, like, &entity.ArticleLike{}, "article_id = ?", articleID)
}

func (r *likeRepository) ToggleCommentLike(ctx context.Context, userID, commentID uint) (bool, int64, error) {
	like := &entity.CommentLike{UserID: userID, CommentID: commentID}
	return r.toggle(ctx, like, &entity.CommentLike{}, "comment_id = ?", commentID)
}

// toggle deletes the like row keyed by like's composite primary key, or
// creates it when nothing was deleted.
func (r *likeRepository) toggle(ctx context.Context, like, model interface{}, targetCond string, targetID uint) (bool, int64, error) {
	var (
		liked bool
		count int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			liked = true
		}

		return tx.Model(model).Where(targetCond, targetID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *likeRepository) ArticleExists(ctx context.Context, articleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Article{}).Where("id = ?", articleID).Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) CommentExists(ctx context.Context, commentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Comment{}).Where("id = ?", commentID).Count(&count).Error
	return count > 0, err
}
