package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	RelatedID string    `json:"relatedId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.ListByUser(c.Request.Context(), user.ID, 100)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, notificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Kind:      n.Kind,
			RelatedID: n.RelatedID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.serviceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
