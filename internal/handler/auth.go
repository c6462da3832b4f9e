package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classroom/internal/auth"
	"classroom/internal/authz"
	"classroom/internal/user"
)

// ---------- Registration / login ----------

func (h *Handler) Register(c *gin.Context) {
	var req user.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type tokenRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	token, expires, err := auth.Issue(u.UserID, u.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_at":   expires,
		"user":         u,
	})
}

func (h *Handler) Roles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": authz.AllRoles})
}

func (h *Handler) Me(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	u, err := h.users.Get(c.Request.Context(), ident.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), ident, req.CurrentPassword, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// ---------- Admin user management ----------

func (h *Handler) ListUsers(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	users, err := h.users.List(c.Request.Context(), ident, limit, offset)
	if err != nil {
		respondErr(c, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "limit": limit, "offset": offset})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var patch user.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.users.Update(c.Request.Context(), ident, id, patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), ident, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

type resetPasswordRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (h *Handler) ResetPassword(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), ident, req.UserID, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

// ---------- Param helpers ----------

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
