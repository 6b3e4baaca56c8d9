package handler

import (
	"context"
	"net/http"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/reaction/dto"
	reaction "anoa.com/jornalufc/internal/modules/reaction/service"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	service reaction.LikeService
}

func NewLikeHandler(service reaction.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) ToggleArticleLike(c *gin.Context) {
	h.toggle(c, h.service.ToggleArticleLike)
}

func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, h.service.ToggleCommentLike)
}

func (h *LikeHandler) toggle(c *gin.Context, fn func(ctx context.Context, actor *entity.User, id uint) (*dto.LikeResponse, error)) {
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

	resp, err := fn(c.Request.Context(), current, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
