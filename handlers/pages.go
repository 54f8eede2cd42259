package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/StellaShiina/ginadmin/admin"
)

// LoginPage renders the login form with no error.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, "")
}

func (h *AuthHandler) renderLogin(c *gin.Context, errorMessage string) {
	page, err := h.Admin.RenderLogin(admin.LoginPage{
		Action:       h.Admin.Options().LoginPath,
		ErrorMessage: errorMessage,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, binding.MIMEHTML, []byte(page))
}
