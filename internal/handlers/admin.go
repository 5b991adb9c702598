package handlers

import (
	"net/http"
	"strconv"

	"funddesk/internal/models"
	"funddesk/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers the admin-only user management surface.
type AdminHandler struct {
	auth *services.AuthService
}

func NewAdminHandler(auth *services.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type createUserForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var form createUserForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.auth.CreateUser(form.Username, form.Password, models.UserRole(form.Role))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type setRoleForm struct {
	Role string `form:"role" json:"role"`
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var form setRoleForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.auth.SetRole(uint(id), models.UserRole(form.Role)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
