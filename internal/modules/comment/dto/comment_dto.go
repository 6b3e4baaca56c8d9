package dto

import (
	"time"

	"anoa.com/jornalufc/internal/entity"
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type CommentResponse struct {
	ID         uint      `json:"id"`
	ArticleID  uint      `json:"article_id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	LikeCount  int64     `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCommentResponse(c *entity.Comment, likes int64) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		AuthorID:   c.AuthorID,
		AuthorName: c.Author.Name,
		Content:    c.Content,
		LikeCount:  likes,
		CreatedAt:  c.CreatedAt,
	}
}
