package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/auth"
)

// GuardConfig holds the paths the session guard needs. All paths are absolute.
type GuardConfig struct {
	RootPath   string
	LoginPath  string
	LogoutPath string
	// AssetPaths are served without a session.
	AssetPaths []string
}

// SessionGuard redirects anonymous requests to the login page, remembering
// where they were headed. Assets, the login path and the logout path are
// always let through.
func SessionGuard(cfg GuardConfig) gin.HandlerFunc {
	assets := make(map[string]struct{}, len(cfg.AssetPaths))
	for _, p := range cfg.AssetPaths {
		assets[p] = struct{}{}
	}
	apiPrefix := strings.TrimSuffix(cfg.RootPath, "/") + "/api"

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := assets[path]; ok {
			c.Next()
			return
		}
		if auth.Principal(c) != nil ||
			strings.HasPrefix(path, cfg.LoginPath) ||
			strings.HasPrefix(path, cfg.LogoutPath) {
			c.Next()
			return
		}

		// an API call to an action brings the user back to the resource,
		// any other API call back to the root
		target, _, _ := strings.Cut(c.Request.URL.RequestURI(), "/actions")
		if strings.Contains(target, apiPrefix) {
			target = cfg.RootPath
		}
		if err := auth.SetRedirectTarget(c, target); err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Redirect(http.StatusFound, cfg.LoginPath)
		c.Abort()
	}
}
