package comment

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/comment/dto"
	"anoa.com/jornalufc/internal/modules/comment/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/sanitize"
	"gorm.io/gorm"
)

type CommentService interface {
	AddComment(ctx context.Context, actor *entity.User, articleID uint, content string) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, articleID uint) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, actor *entity.User, commentID uint) error
}

type commentService struct {
	repo repository.CommentRepository
}

func NewCommentService(repo repository.CommentRepository) CommentService {
	return &commentService{repo: repo}
}

func (s *commentService) AddComment(ctx context.Context, actor *entity.User, articleID uint, content string) (*dto.CommentResponse, error) {
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}

	content = sanitize.HTML(content)
	if content == "" {
		return nil, fmt.Errorf("comment cannot be empty: %w", apperror.ErrInvalidInput)
	}

	comment := &entity.Comment{ArticleID: articleID, AuthorID: actor.ID, Content: content}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *actor

	resp := dto.NewCommentResponse(comment, 0)
	return &resp, nil
}

func (s *commentService) ListComments(ctx context.Context, articleID uint) ([]dto.CommentResponse, error) {
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comments, err := s.repo.FindByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	likes, err := s.repo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.NewCommentResponse(c, likes[c.ID]))
	}
	return out, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor *entity.User, commentID uint) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if !policy.CanPerform(actor.Actor(), policy.ActionDeleteComment, policy.Target{AuthorID: comment.AuthorID}) {
		return fmt.Errorf("you cannot delete this comment: %w", apperror.ErrForbidden)
	}

	return s.repo.Delete(ctx, comment.ID)
}

func (s *commentService) ensureArticle(ctx context.Context, articleID uint) error {
	exists, err := s.repo.ArticleExists(ctx, articleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("article not found: %w", apperror.ErrNotFound)
	}
	return nil
}
