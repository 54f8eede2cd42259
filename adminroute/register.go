// Package adminroute mounts an admin.Admin onto a gin router, optionally
// behind a session-based login.
package adminroute

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/admin"
	"github.com/StellaShiina/ginadmin/auth"
	"github.com/StellaShiina/ginadmin/handlers"
	"github.com/StellaShiina/ginadmin/logger"
	"github.com/StellaShiina/ginadmin/middleware"
)

// Register mounts opts.Admin's routes and assets on r. Paths already carry the
// admin root path, so r is normally the engine itself; a prefixed group would
// prefix them twice. The admin's bundle is initialized in the background and
// requests arriving before it is ready may see missing assets.
func Register(r gin.IRouter, opts Options) error {
	if !opts.Admin.Valid() {
		return &WrongArgumentError{Message: invalidAdminInstance}
	}
	if opts.Auth != nil {
		if err := opts.Auth.Validate(); err != nil {
			return &WrongArgumentError{Message: "invalid authentication options", Err: err}
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("admin")

	go initialize(opts.Admin, log)

	a := opts.Admin
	adminOpts := a.Options()
	routes, assets := a.Routes(), a.Assets()
	g := r.Group("")

	if opts.Auth != nil {
		assetPaths := make([]string, 0, len(assets))
		for _, asset := range assets {
			assetPaths = append(assetPaths, routeURL(adminOpts.RootPath, asset.Path))
		}
		g.Use(
			auth.Middleware(*opts.Auth, opts.Session),
			middleware.SessionGuard(middleware.GuardConfig{
				RootPath:   adminOpts.RootPath,
				LoginPath:  adminOpts.LoginPath,
				LogoutPath: adminOpts.LogoutPath,
				AssetPaths: assetPaths,
			}),
		)

		h := &handlers.AuthHandler{Admin: a, Auth: *opts.Auth, Log: log}
		g.GET(adminOpts.LoginPath, h.LoginPage)
		g.POST(adminOpts.LoginPath, h.Login)
		g.GET(adminOpts.LogoutPath, h.Logout)
	}

	var mp handlers.MultipartOptions
	if opts.Multipart != nil {
		mp = *opts.Multipart
	}
	for _, route := range routes {
		g.Handle(route.Method, routeURL(adminOpts.RootPath, convertPath(route.Path)), handlers.Action(a, route, mp))
	}
	for _, asset := range assets {
		g.GET(routeURL(adminOpts.RootPath, asset.Path), handlers.Asset(asset))
	}

	log.Debug("routes registered",
		"root", adminOpts.RootPath,
		"routes", len(routes),
		"assets", len(assets),
		"auth", opts.Auth != nil,
	)
	return nil
}

func initialize(a *admin.Admin, log *logger.Logger) {
	if err := a.Initialize(context.Background()); err != nil {
		log.Debug("bundle failed", "error", err)
		return
	}
	log.Debug("bundle ready")
}

var placeholders = strings.NewReplacer("{", ":", "}", "")

// convertPath rewrites {name} placeholders to gin's :name.
func convertPath(p string) string {
	return placeholders.Replace(p)
}

// routeURL prefixes p with root, falling back to "/" when both are empty.
func routeURL(root, p string) string {
	u := strings.TrimSuffix(root, "/") + p
	if u == "" {
		return "/"
	}
	return u
}
