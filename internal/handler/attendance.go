package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom/internal/attendance"
)

// ---------- Records ----------

func (h *Handler) ListAttendance(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	f := attendance.Filter{
		ClassID:  c.Query("class_id"),
		USN:      c.Query("usn"),
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Limit:    intQuery(c, "limit", 0),
	}
	records, err := h.attendance.List(c.Request.Context(), ident, f)
	if err != nil {
		respondErr(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) CreateAttendance(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req attendance.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rec, err := h.attendance.Create(c.Request.Context(), ident, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) CreateAttendanceBulk(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req attendance.BulkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.attendance.CreateBulk(c.Request.Context(), ident, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) UpdateAttendance(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var patch attendance.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	rec, err := h.attendance.Update(c.Request.Context(), ident, id, patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteAttendance(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.attendance.Delete(c.Request.Context(), ident, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance record deleted"})
}

// ---------- Stats ----------

func (h *Handler) ClassStats(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	stats, err := h.attendance.ClassStats(c.Request.Context(), ident, c.Param("class_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) StudentStats(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	stats, err := h.attendance.StudentStats(c.Request.Context(), ident, c.Param("usn"), c.Query("class_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) StudentSubjects(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	resp, err := h.attendance.StudentSubjects(c.Request.Context(), ident, c.Param("usn"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) MyAttendance(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	resp, err := h.attendance.MyAttendance(c.Request.Context(), ident, attendance.MyAttendanceFilter{
		Semester: c.Query("semester"),
		Subject:  c.Query("subject"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ---------- Professor views ----------

func (h *Handler) ProfessorSubjects(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	resp, err := h.attendance.ProfessorSubjects(c.Request.Context(), ident)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ProfessorClasses(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	resp, err := h.attendance.ProfessorClasses(c.Request.Context(), ident)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ClassStudents(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	resp, err := h.attendance.ClassStudents(c.Request.Context(), ident, c.Param("class_id"), c.Query("subject"), c.Query("date"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) SemesterReport(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	resp, err := h.attendance.SemesterReport(c.Request.Context(), ident, c.Query("semester"), c.Query("class_id"), c.Query("subject"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
