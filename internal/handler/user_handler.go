// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"net/http"

	"quickchat/internal/services"
	"quickchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// UserHandler handles authentication and profile HTTP endpoints.
type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Signup handles account creation.
func (h *UserHandler) Signup(c *gin.Context) {
	var req httpdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	res, err := h.service.SignUp(c.Request.Context(), services.SignUpInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.AuthResponse{
		Token:     res.Token,
		ExpiresIn: res.ExpiresIn,
		User:      httpdto.FromUser(res.User),
	}))
}

// Login handles user authentication.
func (h *UserHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.AuthResponse{
		Token:     res.Token,
		ExpiresIn: res.ExpiresIn,
		User:      httpdto.FromUser(res.User),
	}))
}

// Check returns the authenticated caller's record.
func (h *UserHandler) Check(c *gin.Context) {
	u, err := h.service.CheckAuth(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(u)))
}

// UpdateProfile mutates the caller's profile, optionally replacing the
// avatar image.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req httpdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	image, contentType, err := httpdto.DecodeImageDataURL(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("malformed image data", "INVALID_REQUEST"))
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), services.UpdateProfileInput{
		FullName:         req.FullName,
		Bio:              req.Bio,
		Image:            image,
		ImageContentType: contentType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(updated)))
}
