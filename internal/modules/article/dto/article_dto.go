package dto

import (
	"time"

	"anoa.com/jornalufc/internal/entity"
	commonDto "anoa.com/jornalufc/pkg/dto"
)

type UploadFile = commonDto.UploadFile

// Optional distinguishes an omitted field (Set=false) from one explicitly
// cleared (Set=true, Value=nil).
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func Cleared[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

type CreateArticleInput struct {
	Title      string
	Content    string
	Subtitle   *string
	Tags       string
	CategoryID *uint
	Cover      *UploadFile
	Gallery    []UploadFile
}

type UpdateArticleInput struct {
	Title      *string
	Content    *string
	Subtitle   Optional[string]
	CategoryID Optional[uint]
	// Tags replaces the whole tag set when non-nil.
	Tags    *string
	Cover   *UploadFile
	Gallery []UploadFile
}

type ArticleFilter struct {
	Skip     int    `form:"skip" binding:"omitempty,min=0"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

type AuthorResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ArticleResponse struct {
	ID          uint                  `json:"id"`
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	Subtitle    *string               `json:"subtitle"`
	Content     string                `json:"content"`
	CoverImage  string                `json:"cover_image"`
	Category    *entity.Category      `json:"category"`
	Author      AuthorResponse        `json:"author"`
	Tags        []entity.Tag          `json:"tags"`
	Gallery     []entity.GalleryImage `json:"gallery"`
	Published   bool                  `json:"published"`
	PublishedAt *time.Time            `json:"published_at"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func NewArticleResponse(a *entity.Article) ArticleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []entity.Tag{}
	}
	gallery := a.Gallery
	if gallery == nil {
		gallery = []entity.GalleryImage{}
	}

	return ArticleResponse{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Subtitle:    a.Subtitle,
		Content:     a.Content,
		CoverImage:  a.CoverImage,
		Category:    a.Category,
		Author:      AuthorResponse{ID: a.AuthorID, Name: a.Author.Name},
		Tags:        tags,
		Gallery:     gallery,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func NewArticleResponses(articles []*entity.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleResponse(a))
	}
	return out
}

// CreateArticleForm is the multipart body of an article submission; the
// cover and gallery files travel as "cover_image" and "gallery".
type CreateArticleForm struct {
	Title      string  `form:"title" binding:"required,max=255"`
	Content    string  `form:"content" binding:"required"`
	Subtitle   *string `form:"subtitle" binding:"omitempty,max=255"`
	Tags       string  `form:"tags" binding:"max=500"`
	CategoryID *uint   `form:"category_id"`
}
