package handler

import (
	"net/http"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/category/dto"
	category "anoa.com/jornalufc/internal/modules/category/service"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreateCategory(c.Request.Context(), current, req.Name)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if categories == nil {
		categories = []*entity.Category{}
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
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

	if err := h.service.DeleteCategory(c.Request.Context(), current, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}
