package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"anoa.com/jornalufc/internal/modules/article/dto"
	article "anoa.com/jornalufc/internal/modules/article/service"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	coverField   = "cover_image"
	galleryField = "gallery"
)

var allowedCoverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type ArticleHandler struct {
	service article.Service
}

func NewArticleHandler(service article.Service) *ArticleHandler {
	return &ArticleHandler{service: service}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var form dto.CreateArticleForm
	if err := c.ShouldBind(&form); err != nil {
		response.BindError(c, err)
		return
	}

	coverHeader, err := c.FormFile(coverField)
	if err != nil {
		response.ResponseError(c, fmt.Errorf("imagem de capa é obrigatória: %w", apperror.ErrBadRequest))
		return
	}

	files, closeAll, err := openUploads(c, coverHeader)
	defer closeAll()
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreateArticle(c.Request.Context(), current, dto.CreateArticleInput{
		Title:      form.Title,
		Content:    form.Content,
		Subtitle:   form.Subtitle,
		Tags:       form.Tags,
		CategoryID: form.CategoryID,
		Cover:      files.cover,
		Gallery:    files.gallery,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewArticleResponse(created))
}

func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var filter dto.ArticleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	articles, err := h.service.ListArticles(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewArticleResponses(articles))
}

func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	found, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewArticleResponse(found))
}

func (h *ArticleHandler) GetByID(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewArticleResponse(found))
}

// UpdateArticle reads a partial multipart form. A field that is absent from
// the form is left untouched; an empty subtitle or category_id clears it.
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var in dto.UpdateArticleInput
	if v, ok := c.GetPostForm("title"); ok {
		in.Title = &v
	}
	if v, ok := c.GetPostForm("content"); ok {
		in.Content = &v
	}
	if v, ok := c.GetPostForm("tags"); ok {
		in.Tags = &v
	}
	if v, ok := c.GetPostForm("subtitle"); ok {
		if strings.TrimSpace(v) == "" {
			in.Subtitle = dto.Cleared[string]()
		} else {
			in.Subtitle = dto.Some(v)
		}
	}
	if v, ok := c.GetPostForm("category_id"); ok {
		if strings.TrimSpace(v) == "" {
			in.CategoryID = dto.Cleared[uint]()
		} else {
			parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
			if err != nil {
				response.ResponseError(c, fmt.Errorf("category_id inválido: %w", apperror.ErrBadRequest))
				return
			}
			in.CategoryID = dto.Some(uint(parsed))
		}
	}

	var coverHeader *multipart.FileHeader
	if fh, err := c.FormFile(coverField); err == nil {
		coverHeader = fh
	}

	files, closeAll, err := openUploads(c, coverHeader)
	defer closeAll()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	in.Cover = files.cover
	in.Gallery = files.gallery

	updated, err := h.service.UpdateArticle(c.Request.Context(), current, id, in)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewArticleResponse(updated))
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), current, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notícia removida"})
}

func (h *ArticleHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

type uploads struct {
	cover   *dto.UploadFile
	gallery []dto.UploadFile
}

// openUploads opens the cover (when given) and every gallery file. The
// returned close func must always be called.
func openUploads(c *gin.Context, coverHeader *multipart.FileHeader) (uploads, func(), error) {
	var (
		out    uploads
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if coverHeader != nil {
		if !allowedCoverTypes[coverHeader.Header.Get("Content-Type")] {
			return out, closeAll, fmt.Errorf("apenas imagens JPG, PNG ou WEBP são permitidas: %w", apperror.ErrUnsupportedFileType)
		}
		file, err := coverHeader.Open()
		if err != nil {
			return out, closeAll, fmt.Errorf("falha ao ler a imagem de capa: %w", apperror.ErrBadRequest)
		}
		opened = append(opened, file)
		out.cover = &dto.UploadFile{Reader: file, FileName: coverHeader.Filename}
	}

	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return out, closeAll, nil
	}
	for _, fh := range form.File[galleryField] {
		file, err := fh.Open()
		if err != nil {
			return out, closeAll, fmt.Errorf("falha ao ler a imagem %q: %w", fh.Filename, apperror.ErrBadRequest)
		}
		opened = append(opened, file)
		out.gallery = append(out.gallery, dto.UploadFile{Reader: file, FileName: fh.Filename})
	}
	return out, closeAll, nil
}
