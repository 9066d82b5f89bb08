package handler

import (
	"net/http"

	"quickchat/internal/services"
	"quickchat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageHandler handles direct-message HTTP endpoints.
type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// SidebarUsers lists the caller's conversation peers.
func (h *MessageHandler) SidebarUsers(c *gin.Context) {
	entries, err := h.service.SidebarUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListSidebarResponse{
		Users: httpdto.FromSidebarSlice(entries),
	}))
}

// GetConversation returns the history with the peer in the path.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	peerID, ok := pathID(c)
	if !ok {
		return
	}

	messages, err := h.service.GetConversation(c.Request.Context(), peerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListMessagesResponse{
		Messages: httpdto.FromMessageSlice(messages),
	}))
}

// MarkSeen flips the seen flag on the peer's messages to the caller.
func (h *MessageHandler) MarkSeen(c *gin.Context) {
	peerID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.MarkSeen(c.Request.Context(), peerID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Send creates a message addressed to the peer in the path.
func (h *MessageHandler) Send(c *gin.Context) {
	receiverID, ok := pathID(c)
	if !ok {
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	image, contentType, err := httpdto.DecodeImageDataURL(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("malformed image data", "INVALID_REQUEST"))
		return
	}

	created, err := h.service.Send(c.Request.Context(), services.SendInput{
		ReceiverID:       receiverID,
		Text:             req.Text,
		Image:            image,
		ImageContentType: contentType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(created)))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid id", "INVALID_REQUEST"))
		return uuid.Nil, false
	}
	return id, true
}
