package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/StellaShiina/ginadmin/admin"
	"github.com/StellaShiina/ginadmin/auth"
	"github.com/StellaShiina/ginadmin/logger"
)

// AuthHandler serves the login and logout routes of one admin instance.
type AuthHandler struct {
	Admin *admin.Admin
	Auth  auth.Options
	Log   *logger.Logger
}

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Login checks the submitted credentials. On success the principal goes into
// the session and the user is sent to the pending redirect target, or the
// root path when there is none.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	principal, err := h.Auth.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if principal == nil {
		h.Log.Warn("admin login failed", "email", form.Email)
		h.renderLogin(c, admin.InvalidCredentials)
		return
	}

	if err := auth.SetPrincipal(c, principal); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	h.Log.Info("admin login", "email", form.Email)

	opts := h.Admin.Options()
	if target := auth.RedirectTarget(c); target != "" {
		c.Redirect(http.StatusFound, target)
		return
	}
	c.Redirect(http.StatusFound, opts.RootPath)
}

// Logout destroys the session and sends the user back to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	loginPath := h.Admin.Options().LoginPath
	if auth.Principal(c) == nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}
	if err := auth.Destroy(c); err != nil {
		h.Log.Error("destroy admin session", "error", err)
		c.Data(http.StatusInternalServerError, binding.MIMEPlain, []byte("Internal Server Error"))
		return
	}
	c.Redirect(http.StatusFound, loginPath)
}
