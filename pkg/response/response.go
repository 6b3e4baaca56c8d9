package response

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/logger"
	"anoa.com/jornalufc/pkg/ratelimiter"
	"anoa.com/jornalufc/pkg/validator"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
)

// CurrentUserKey is where the auth middleware stores the authenticated *entity.User.
const CurrentUserKey = "current_user"

// GetCurrentUser retrieves the authenticated user from the context
func GetCurrentUser(c *gin.Context) (*entity.User, error) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}
	user, ok := value.(*entity.User)
	if !ok || user == nil {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %w", name, apperror.ErrBadRequest)
	}
	return uint(id), nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var validationErrors playground.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
		return
	}

	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindError renders a request binding failure as a 400.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
