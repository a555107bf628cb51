package api

import (
	"net/http"
	"time"

	"github.com/dmsavelev/tripbooking/internal/service/notifications"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service notifications.NotificationUseCase
}

type notificationResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationHandler(service notifications.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.POST("/send", h.send)
}

func (h *NotificationHandler) send(c *gin.Context) {
	var req notifications.SendInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	notification, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification sent", notificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		Status:    string(notification.Status),
		CreatedAt: notification.CreatedAt,
	})
}
