package handler

import (
	"errors"

	"quickchat/internal/services"
	"quickchat/internal/transport/httpdto"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), errorCode(err)))
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, quickchat_errors.ErrInvalidInput):
		return "INVALID_REQUEST"
	case errors.Is(err, quickchat_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, quickchat_errors.ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, quickchat_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, quickchat_errors.ErrAlreadyExists), errors.Is(err, quickchat_errors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, quickchat_errors.ErrTooLarge):
		return "TOO_LARGE"
	case errors.Is(err, quickchat_errors.ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, quickchat_errors.ErrUploadFailed):
		return "UPLOAD_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}
