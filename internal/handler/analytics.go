package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type aiSummaryRequest struct {
	ClassID string `json:"class_id"`
}

func (h *Handler) AISummary(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req aiSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ClassID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}
	summary, err := h.analytics.AISummary(c.Request.Context(), ident, req.ClassID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) DashboardData(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	dash, err := h.analytics.DashboardData(c.Request.Context(), ident, c.Query("class_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
