package handler

import (
	"context"
	"fmt"
	"net/http"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/user/dto"
	user "anoa.com/jornalufc/internal/modules/user/service"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	commonDto "anoa.com/jornalufc/pkg/dto"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service user.Service
}

func NewAuthHandler(service user.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verify is the target of the activation link e-mailed to professors.
func (h *AuthHandler) Verify(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.ResponseError(c, fmt.Errorf("email is required: %w", apperror.ErrBadRequest))
		return
	}

	if err := h.service.ActivateByEmailLink(c.Request.Context(), email); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1 style='color:green'>Sucesso! Conta ativada.</h1>"))
}

func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req dto.RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "e-mail de recuperação enviado (se o usuário existir)"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.CompletePasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "senha alterada com sucesso"})
}

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.CreateAccount(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) Me(c *gin.Context) {
	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var q commonDto.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), current, q.Page, q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// selfOrAdmin resolves the :id path parameter, which must be the caller
// unless the caller is an admin.
func selfOrAdmin(c *gin.Context) (uint, error) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return 0, err
	}
	current, err := response.GetCurrentUser(c)
	if err != nil {
		return 0, err
	}
	if current.ID != id && current.Role != policy.RoleAdmin {
		return 0, fmt.Errorf("you can only change your own role: %w", apperror.ErrForbidden)
	}
	return id, nil
}

func (h *UserHandler) BecomeScholarship(c *gin.Context) {
	id, err := selfOrAdmin(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.service.RequestRoleChangeToScholarship(c.Request.Context(), id, req.OrientorEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) BecomeReader(c *gin.Context) {
	id, err := selfOrAdmin(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.RevertToReader(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) ListStudents(c *gin.Context) {
	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	students, err := h.service.ListStudents(c.Request.Context(), current)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if students == nil {
		students = []*entity.User{}
	}

	c.JSON(http.StatusOK, gin.H{"data": students})
}

func (h *UserHandler) ApproveStudent(c *gin.Context) {
	h.sponsorshipAction(c, h.service.ApproveSponsorship)
}

func (h *UserHandler) EndSponsorship(c *gin.Context) {
	h.sponsorshipAction(c, h.service.EndSponsorship)
}

func (h *UserHandler) sponsorshipAction(c *gin.Context, action func(ctx context.Context, actor *entity.User, studentID uint) (*entity.User, error)) {
	studentID, err := response.ParamID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	current, err := response.GetCurrentUser(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	student, err := action(c.Request.Context(), current, studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}
