package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classroom/internal/notification"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	f := notification.Filter{
		ClassID:   c.Query("class_id"),
		TargetUSN: c.Query("target_usn"),
		Type:      c.Query("type"),
		Limit:     intQuery(c, "limit", 0),
	}
	if raw := c.Query("is_read"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.IsRead = &v
		}
	}
	out, err := h.notifications.List(c.Request.Context(), ident, f)
	if err != nil {
		respondErr(c, err)
		return
	}
	if out == nil {
		out = []notification.Notification{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req notification.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.notifications.Create(c.Request.Context(), ident, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.notifications.MarkRead(c.Request.Context(), ident, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), ident, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}
