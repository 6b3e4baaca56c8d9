package reaction

import (
	"context"
	"fmt"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/reaction/dto"
	"anoa.com/jornalufc/internal/modules/reaction/repository"
	"anoa.com/jornalufc/pkg/apperror"
)

type LikeService interface {
	ToggleArticleLike(ctx context.Context, actor *entity.User, articleID uint) (*dto.LikeResponse, error)
	ToggleCommentLike(ctx context.Context, actor *entity.User, commentID uint) (*dto.LikeResponse, error)
}

type likeService struct {
	repo repository.LikeRepository
}

func NewLikeService(repo repository.LikeRepository) LikeService {
	return &likeService{repo: repo}
}

func (s *likeService) ToggleArticleLike(ctx context.Context, actor *entity.User, articleID uint) (*dto.LikeResponse, error) {
	exists, err := s.repo.ArticleExists(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("article not found: %w", apperror.ErrNotFound)
	}

	liked, count, err := s.repo.ToggleArticleLike(ctx, actor.ID, articleID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked, Count: count}, nil
}

func (s *likeService) ToggleCommentLike(ctx context.Context, actor *entity.User, commentID uint) (*dto.LikeResponse, error) {
	exists, err := s.repo.CommentExists(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("comment not found: %w", apperror.ErrNotFound)
	}

	liked, count, err := s.repo.ToggleCommentLike(ctx, actor.ID, commentID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked, Count: count}, nil
}
