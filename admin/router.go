package admin

import (
	"net/http"
	"path/filepath"
)

// RouteDescriptor describes one admin action. Path is relative to the root
// path and uses {name} placeholders.
type RouteDescriptor struct {
	Method      string
	Path        string
	Controller  ControllerFactory
	Action      string
	ContentType string
}

// AssetDescriptor describes one static file exposed under the root path.
type AssetDescriptor struct {
	Path string
	Src  string
}

const jsonContentType = "application/json"

const (
	AppBundle        = "app.js"
	StyleBundle      = "app.css"
	ComponentsBundle = "components.bundle.js"
)

const assetsPrefix = "/frontend/assets/"

func builtinRoutes() []RouteDescriptor {
	app := NewAppController
	api := NewAPIController
	return []RouteDescriptor{
		{Method: http.MethodGet, Path: "", Controller: app, Action: "index"},
		{Method: http.MethodGet, Path: "/resources/{resourceId}", Controller: app, Action: "resource"},
		{Method: http.MethodGet, Path: "/resources/{resourceId}/actions/{action}", Controller: app, Action: "resourceAction"},
		{Method: http.MethodGet, Path: "/resources/{resourceId}/records/{recordId}/{action}", Controller: app, Action: "recordAction"},
		{Method: http.MethodGet, Path: "/pages/{pageName}", Controller: app, Action: "page"},

		{Method: http.MethodGet, Path: "/api/dashboard", Controller: api, Action: "dashboard", ContentType: jsonContentType},
		{Method: http.MethodGet, Path: "/api/resources/{resourceId}/actions/{action}/search/{query}", Controller: api, Action: "search", ContentType: jsonContentType},
		{Method: http.MethodGet, Path: "/api/resources/{resourceId}/actions/{action}", Controller: api, Action: "resourceAction", ContentType: jsonContentType},
		{Method: http.MethodPost, Path: "/api/resources/{resourceId}/actions/{action}", Controller: api, Action: "resourceAction", ContentType: jsonContentType},
		{Method: http.MethodGet, Path: "/api/resources/{resourceId}/records/{recordId}/{action}", Controller: api, Action: "recordAction", ContentType: jsonContentType},
		{Method: http.MethodPost, Path: "/api/resources/{resourceId}/records/{recordId}/{action}", Controller: api, Action: "recordAction", ContentType: jsonContentType},
		{Method: http.MethodPost, Path: "/api/resources/{resourceId}/bulk/{action}", Controller: api, Action: "bulkAction", ContentType: jsonContentType},
	}
}

func builtinAssets(bundleDir string) []AssetDescriptor {
	names := []string{StyleBundle, AppBundle, ComponentsBundle}
	assets := make([]AssetDescriptor, 0, len(names))
	for _, name := range names {
		assets = append(assets, AssetDescriptor{
			Path: assetsPrefix + name,
			Src:  filepath.Join(bundleDir, name),
		})
	}
	return assets
}
