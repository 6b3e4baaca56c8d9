package handler

import (
	"fmt"
	"net/http"

	"anoa.com/jornalufc/internal/modules/event/dto"
	event "anoa.com/jornalufc/internal/modules/event/service"
	"anoa.com/jornalufc/pkg/apperror"
	commonDto "anoa.com/jornalufc/pkg/dto"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service event.EventService
}

func NewEventHandler(service event.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var form dto.CreateEventForm
	if err := c.ShouldBind(&form); err != nil {
		response.BindError(c, err)
		return
	}

	in := dto.CreateEventInput{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		StartsAt:    form.StartsAt,
		EndsAt:      form.EndsAt,
	}

	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.ResponseError(c, fmt.Errorf("falha ao ler a imagem: %w", apperror.ErrBadRequest))
			return
		}
		defer file.Close()

		in.Image = &commonDto.UploadFile{Reader: file, FileName: fileHeader.Filename}
	}

	created, err := h.service.CreateEvent(c.Request.Context(), current, in)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	var q dto.ListEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	events, err := h.service.ListEvents(c.Request.Context(), q.Upcoming)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
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

	if err := h.service.DeleteEvent(c.Request.Context(), current, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "evento removido"})
}
