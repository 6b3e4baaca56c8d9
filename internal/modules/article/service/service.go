package article

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/article/dto"
	"anoa.com/jornalufc/internal/modules/article/repository"
	categoryRepo "anoa.com/jornalufc/internal/modules/category/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/ratelimiter"
	"anoa.com/jornalufc/pkg/sanitize"
	"anoa.com/jornalufc/pkg/slug"
	"anoa.com/jornalufc/pkg/storage"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 10
	maxSlugAttempts  = 5
	fallbackSlug     = "noticia"

	coverFolder   = "articles"
	galleryFolder = "articles/gallery"
)

type Service interface {
	CreateArticle(ctx context.Context, author *entity.User, in dto.CreateArticleInput) (*entity.Article, error)
	ListArticles(ctx context.Context, filter dto.ArticleFilter) ([]*entity.Article, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
	GetByID(ctx context.Context, id uint) (*entity.Article, error)
	UpdateArticle(ctx context.Context, actor *entity.User, id uint, in dto.UpdateArticleInput) (*entity.Article, error)
	DeleteArticle(ctx context.Context, actor *entity.User, id uint) error
	ListTags(ctx context.Context) ([]*entity.Tag, error)
}

type Options struct {
	// CreateCooldown is the minimum interval between two articles by the same author.
	CreateCooldown time.Duration
}

type service struct {
	repo       repository.Repository
	tags       repository.TagRepository
	categories categoryRepo.CategoryRepository
	storage    storage.ImageStorage
	limiter    *ratelimiter.Limiter
	opts       Options
	logger     zerolog.Logger
}

func NewService(
	repo repository.Repository,
	tags repository.TagRepository,
	categories categoryRepo.CategoryRepository,
	storage storage.ImageStorage,
	limiter *ratelimiter.Limiter,
	opts Options,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:       repo,
		tags:       tags,
		categories: categories,
		storage:    storage,
		limiter:    limiter,
		opts:       opts,
		logger:     logger,
	}
}

func (s *service) CreateArticle(ctx context.Context, author *entity.User, in dto.CreateArticleInput) (article *entity.Article, err error) {
	if !policy.CanPerform(author.Actor(), policy.ActionPublishArticle, policy.Target{}) {
		if author.Role == policy.RoleScholarship {
			return nil, fmt.Errorf("scholarship students need an orientor to publish: %w", apperror.ErrForbidden)
		}
		return nil, fmt.Errorf("readers cannot publish articles: %w", apperror.ErrForbidden)
	}

	title := sanitize.Text(in.Title)
	content := sanitize.HTML(in.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required: %w", apperror.ErrInvalidInput)
	}
	if in.Cover == nil || in.Cover.FileName == "" {
		return nil, fmt.Errorf("cover image is required: %w", apperror.ErrInvalidInput)
	}
	if in.CategoryID != nil {
		if err := s.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	principal := strconv.FormatUint(uint64(author.ID), 10)
	allowed, retryAfter, limitErr := s.limiter.Allow(ctx, principal, ratelimiter.ScopeArticle, s.opts.CreateCooldown)
	if limitErr != nil {
		s.logger.Warn().Err(limitErr).Msg("article rate limiter unavailable")
	} else if !allowed {
		return nil, &ratelimiter.RateLimitError{
			Message:    "aguarde antes de publicar outra notícia",
			RetryAfter: retryAfter,
		}
	}

	var uploaded []string
	defer func() {
		if err == nil {
			return
		}
		if limitErr == nil {
			if clearErr := s.limiter.Clear(ctx, principal, ratelimiter.ScopeArticle); clearErr != nil {
				s.logger.Warn().Err(clearErr).Msg("failed to release article rate limit")
			}
		}
		s.discard(ctx, uploaded)
	}()

	cover, err := s.storage.UploadImage(ctx, in.Cover.Reader, coverFolder, in.Cover.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store cover image: %w", err)
	}
	uploaded = append(uploaded, cover)

	gallery, err := s.uploadGallery(ctx, in.Gallery, &uploaded)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	article = &entity.Article{
		Title:       title,
		Subtitle:    sanitizeOptional(in.Subtitle),
		Content:     content,
		CoverImage:  cover,
		CategoryID:  in.CategoryID,
		AuthorID:    author.ID,
		Published:   true,
		PublishedAt: &now,
		Tags:        tags,
		Gallery:     gallery,
	}

	base := slug.Make(title)
	if base == "" {
		base = fallbackSlug
	}

	for attempt := 1; ; attempt++ {
		article.Slug, err = slug.Unique(ctx, base, s.repo.SlugExists)
		if err != nil {
			return nil, err
		}

		err = s.repo.Create(ctx, article)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxSlugAttempts {
			return nil, err
		}
		s.logger.Debug().Str("slug", article.Slug).Int("attempt", attempt).Msg("slug taken concurrently, retrying")
		article.ID = 0
	}

	s.logger.Info().Uint("article_id", article.ID).Str("slug", article.Slug).Uint("author_id", author.ID).Msg("article published")
	return s.repo.FindByID(ctx, article.ID)
}

func (s *service) ListArticles(ctx context.Context, filter dto.ArticleFilter) ([]*entity.Article, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	return s.repo.FindAll(ctx, repository.ListFilter{
		CategorySlug: strings.TrimSpace(filter.Category),
		TagSlug:      strings.TrimSpace(filter.Tag),
	}, filter.Skip, filter.Limit)
}

func (s *service) GetBySlug(ctx context.Context, articleSlug string) (*entity.Article, error) {
	article, err := s.repo.FindBySlug(ctx, articleSlug)
	if err != nil {
		return nil, notFound(err)
	}
	return article, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*entity.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return article, nil
}

// UpdateArticle applies a partial edit. Title and content change only when a
// non-empty value is given, gallery images are appended and a provided tag
// string replaces the whole tag set.
func (s *service) UpdateArticle(ctx context.Context, actor *entity.User, id uint, in dto.UpdateArticleInput) (*entity.Article, error) {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanPerform(actor.Actor(), policy.ActionEditArticle, policy.Target{AuthorID: article.AuthorID}) {
		return nil, fmt.Errorf("you cannot edit this article: %w", apperror.ErrForbidden)
	}

	if in.Title != nil {
		if title := sanitize.Text(*in.Title); title != "" {
			article.Title = title
		}
	}
	if in.Content != nil {
		if content := sanitize.HTML(*in.Content); content != "" {
			article.Content = content
		}
	}
	if in.Subtitle.Set {
		article.Subtitle = sanitizeOptional(in.Subtitle.Value)
	}
	if in.CategoryID.Set {
		if in.CategoryID.Value != nil {
			if err := s.ensureCategory(ctx, *in.CategoryID.Value); err != nil {
				return nil, err
			}
		}
		article.CategoryID = in.CategoryID.Value
		article.Category = nil
	}

	replaceTags := in.Tags != nil
	if replaceTags {
		tags, err := s.resolveTags(ctx, *in.Tags)
		if err != nil {
			return nil, err
		}
		article.Tags = tags
	}

	var uploaded []string
	oldCover := ""
	if in.Cover != nil && in.Cover.FileName != "" {
		cover, err := s.storage.UploadImage(ctx, in.Cover.Reader, coverFolder, in.Cover.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to store cover image: %w", err)
		}
		uploaded = append(uploaded, cover)
		oldCover = article.CoverImage
		article.CoverImage = cover
	}

	gallery, err := s.uploadGallery(ctx, in.Gallery, &uploaded)
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	if err := s.repo.Update(ctx, article, replaceTags, gallery); err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	if oldCover != "" {
		if err := s.storage.DeleteImage(ctx, oldCover); err != nil {
			s.logger.Warn().Err(err).Str("locator", oldCover).Msg("failed to delete replaced cover image")
		}
	}

	return s.repo.FindByID(ctx, article.ID)
}

// DeleteArticle marks the article deleted. Stored media is kept so the
// article can be restored.
func (s *service) DeleteArticle(ctx context.Context, actor *entity.User, id uint) error {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanPerform(actor.Actor(), policy.ActionDeleteArticle, policy.Target{AuthorID: article.AuthorID}) {
		return fmt.Errorf("you cannot delete this article: %w", apperror.ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, article.ID); err != nil {
		return err
	}
	s.logger.Info().Uint("article_id", article.ID).Uint("actor_id", actor.ID).Msg("article deleted")
	return nil
}

func (s *service) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	return s.tags.FindAll(ctx)
}

func (s *service) ensureCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %d does not exist: %w", id, apperror.ErrBadRequest)
		}
		return err
	}
	return nil
}

// uploadGallery stores every gallery file with a name, recording each
// locator in uploaded so the caller can roll back.
func (s *service) uploadGallery(ctx context.Context, files []dto.UploadFile, uploaded *[]string) ([]entity.GalleryImage, error) {
	var gallery []entity.GalleryImage
	for _, f := range files {
		if f.FileName == "" {
			continue
		}
		locator, err := s.storage.UploadImage(ctx, f.Reader, galleryFolder, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to store gallery image %q: %w", f.FileName, err)
		}
		*uploaded = append(*uploaded, locator)
		gallery = append(gallery, entity.GalleryImage{URL: locator})
	}
	return gallery, nil
}

// discard removes files stored for a write that did not commit.
func (s *service) discard(ctx context.Context, locators []string) {
	for _, locator := range locators {
		if err := s.storage.DeleteImage(ctx, locator); err != nil {
			s.logger.Warn().Err(err).Str("locator", locator).Msg("failed to remove orphaned upload")
		}
	}
}

func sanitizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	clean := sanitize.Text(*v)
	return &clean
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("article not found: %w", apperror.ErrNotFound)
	}
	return err
}
