// Package admin is a small admin-panel engine. It owns a registry of
// resources and describes itself to a web framework through route and asset
// descriptors; it never touches a router directly.
package admin

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/StellaShiina/ginadmin/validator"
)

var (
	ErrNotFound      = errors.New("admin: not found")
	ErrUnknownAction = errors.New("admin: unknown action")
)

const (
	DefaultRootPath    = "/admin"
	DefaultCompanyName = "ginadmin"
)

// Branding controls what the panel calls itself.
type Branding struct {
	CompanyName string
}

// Options configures an Admin. Empty paths get defaults derived from RootPath.
type Options struct {
	RootPath   string `validate:"startswith=/"`
	LoginPath  string `validate:"startswith=/"`
	LogoutPath string `validate:"startswith=/"`

	// BundleDir receives the frontend files written by Initialize. Each
	// instance defaults to its own directory under os.TempDir.
	BundleDir string `validate:"required"`
	Branding  Branding

	Resources []Resource
	// Pages maps a page name to the HTML body shown under /pages/{pageName}.
	Pages map[string]string
	// Components maps a component name to a JavaScript source file that is
	// concatenated into components.bundle.js.
	Components map[string]string
	// Routes are appended to the built-in router.
	Routes []RouteDescriptor
}

// Admin is the admin-panel instance handed to an adapter.
type Admin struct {
	options   Options
	resources map[string]Resource
	order     []string
	routes    []RouteDescriptor
	assets    []AssetDescriptor
	templates *template.Template

	initOnce sync.Once
	initErr  error
	ready    chan struct{}
}

// New validates opts, fills defaults and builds the route table.
func New(opts Options) (*Admin, error) {
	opts = withDefaults(opts)
	if err := validator.Struct(opts); err != nil {
		return nil, fmt.Errorf("admin options: %w", err)
	}

	a := &Admin{
		options:   opts,
		resources: make(map[string]Resource, len(opts.Resources)),
		ready:     make(chan struct{}),
	}
	for _, r := range opts.Resources {
		if r == nil {
			return nil, errors.New("admin options: nil resource")
		}
		if _, dup := a.resources[r.ID()]; dup {
			return nil, fmt.Errorf("admin options: duplicate resource %q", r.ID())
		}
		a.resources[r.ID()] = r
		a.order = append(a.order, r.ID())
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	a.templates = tmpl
	a.routes = append(builtinRoutes(), opts.Routes...)
	a.assets = builtinAssets(opts.BundleDir)
	return a, nil
}

func withDefaults(opts Options) Options {
	if opts.RootPath == "" {
		opts.RootPath = DefaultRootPath
	}
	if opts.RootPath != "/" {
		opts.RootPath = strings.TrimSuffix(opts.RootPath, "/")
	}
	if opts.LoginPath == "" {
		opts.LoginPath = path.Join(opts.RootPath, "login")
	}
	if opts.LogoutPath == "" {
		opts.LogoutPath = path.Join(opts.RootPath, "logout")
	}
	if opts.BundleDir == "" {
		opts.BundleDir = filepath.Join(os.TempDir(), ".ginadmin-"+uuid.NewString())
	}
	if opts.Branding.CompanyName == "" {
		opts.Branding.CompanyName = DefaultCompanyName
	}
	return opts
}

// Valid reports whether a was built by New.
func (a *Admin) Valid() bool {
	return a != nil && a.ready != nil && a.templates != nil
}

// Options returns the resolved options.
func (a *Admin) Options() Options {
	return a.options
}

// Routes returns the route descriptors, built-in first.
func (a *Admin) Routes() []RouteDescriptor {
	out := make([]RouteDescriptor, len(a.routes))
	copy(out, a.routes)
	return out
}

// Assets returns the static asset descriptors.
func (a *Admin) Assets() []AssetDescriptor {
	out := make([]AssetDescriptor, len(a.assets))
	copy(out, a.assets)
	return out
}

// Resources returns the registered resources in registration order.
func (a *Admin) Resources() []Resource {
	out := make([]Resource, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.resources[id])
	}
	return out
}

func (a *Admin) FindResource(id string) (Resource, error) {
	r, ok := a.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", id, ErrNotFound)
	}
	return r, nil
}

// rootURL joins p onto the root path without doubling slashes.
func (a *Admin) rootURL(p string) string {
	root := strings.TrimSuffix(a.options.RootPath, "/")
	if root+p == "" {
		return "/"
	}
	return root + p
}
