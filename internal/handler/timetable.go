package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom/internal/timetable"
)

func (h *Handler) ListTimetable(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	entries, err := h.timetable.List(c.Request.Context(), ident, c.Query("class_id"), c.Query("day"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type createTimetableRequest struct {
	ClassID     string `json:"class_id" binding:"required"`
	Day         string `json:"day" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	ProfessorID string `json:"professor_id" binding:"required"`
}

func (h *Handler) CreateTimetable(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req createTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.timetable.Create(c.Request.Context(), ident, timetable.Entry{
		ClassID:     req.ClassID,
		Day:         req.Day,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Subject:     req.Subject,
		ProfessorID: req.ProfessorID,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type cancelRequest struct {
	timetable.NaturalKey
	CancelReason string `json:"cancel_reason"`
}

func (h *Handler) CancelClass(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.timetable.Cancel(c.Request.Context(), ident, req.NaturalKey, req.CancelReason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class cancelled", "entry": entry})
}

func (h *Handler) RestoreClass(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var key timetable.NaturalKey
	if err := c.ShouldBindJSON(&key); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.timetable.Restore(c.Request.Context(), ident, key)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class restored", "entry": entry})
}

func (h *Handler) UpdateTimetable(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var patch timetable.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.timetable.Update(c.Request.Context(), ident, id, patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteTimetable(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.timetable.Delete(c.Request.Context(), ident, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "timetable entry deleted"})
}

func (h *Handler) CancelledClasses(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	entries, err := h.timetable.Cancelled(c.Request.Context(), ident)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) NextClass(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}
	view, err := h.timetable.NextClass(c.Request.Context(), ident, classID)
	if err != nil {
		respondErr(c, err)
		return
	}
	// A class with no schedule renders an explicit null.
	c.JSON(http.StatusOK, gin.H{"class_id": classID, "next_class": view})
}
