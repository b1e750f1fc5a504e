package handlers

import (
	"net/http"

	"buslink/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users services.IdentityProvider
}

func NewProfileHandler(users services.IdentityProvider) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Show - 用户主页 /api/profiles/:username
func (h *ProfileHandler) Show(c *gin.Context) {
	author, err := h.users.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}
