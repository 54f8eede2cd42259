package admin

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	a, err := New(Options{BundleDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	opts := a.Options()
	if opts.RootPath != DefaultRootPath {
		t.Errorf("RootPath = %q", opts.RootPath)
	}
	if opts.LoginPath != "/admin/login" || opts.LogoutPath != "/admin/logout" {
		t.Errorf("login/logout = %q, %q", opts.LoginPath, opts.LogoutPath)
	}
	if opts.Branding.CompanyName != DefaultCompanyName {
		t.Errorf("CompanyName = %q", opts.Branding.CompanyName)
	}
	if !a.Valid() {
		t.Error("Valid() = false")
	}
}

func TestDefaultBundleDirPerInstance(t *testing.T) {
	first, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, b := first.Options().BundleDir, second.Options().BundleDir
	if a == b {
		t.Fatalf("both instances share bundle dir %q", a)
	}
	for _, dir := range []string{a, b} {
		if filepath.Dir(dir) != filepath.Clean(os.TempDir()) {
			t.Errorf("bundle dir %q is not under %q", dir, os.TempDir())
		}
	}
}

func TestNewRootPaths(t *testing.T) {
	tests := []struct {
		root, wantRoot, wantLogin string
	}{
		{"/", "/", "/login"},
		{"/panel/", "/panel", "/panel/login"},
		{"/a/b", "/a/b", "/a/b/login"},
	}
	for _, tt := range tests {
		a, err := New(Options{RootPath: tt.root, BundleDir: t.TempDir()})
		if err != nil {
			t.Fatalf("New(%q): %v", tt.root, err)
		}
		if got := a.Options(); got.RootPath != tt.wantRoot || got.LoginPath != tt.wantLogin {
			t.Errorf("New(%q) root=%q login=%q, want %q %q", tt.root, got.RootPath, got.LoginPath, tt.wantRoot, tt.wantLogin)
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	dup := NewMemoryResource("post", "Posts")
	tests := []struct {
		name string
		opts Options
	}{
		{"relative root", Options{RootPath: "admin"}},
		{"relative login", Options{LoginPath: "login"}},
		{"nil resource", Options{Resources: []Resource{nil}}},
		{"duplicate resource", Options{Resources: []Resource{dup, NewMemoryResource("post", "Again")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.BundleDir = t.TempDir()
			if _, err := New(tt.opts); err == nil {
				t.Fatal("New succeeded, want error")
			}
		})
	}
}

func TestZeroAdminIsInvalid(t *testing.T) {
	var nilAdmin *Admin
	if nilAdmin.Valid() || (&Admin{}).Valid() {
		t.Fatal("zero admin reported valid")
	}
}

func TestRoutesAndAssets(t *testing.T) {
	custom := RouteDescriptor{Method: http.MethodGet, Path: "/hello", Controller: NewAppController, Action: "index"}
	dir := t.TempDir()
	a, err := New(Options{BundleDir: dir, Routes: []RouteDescriptor{custom}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	routes := a.Routes()
	if routes[0].Path != "" || routes[0].Action != "index" {
		t.Errorf("first route = %+v, want index", routes[0])
	}
	if last := routes[len(routes)-1]; last.Path != "/hello" {
		t.Errorf("custom route not appended: %+v", last)
	}
	for _, r := range routes {
		if strings.HasPrefix(r.Path, "/api/") && r.ContentType != "application/json" {
			t.Errorf("%s %s content type = %q", r.Method, r.Path, r.ContentType)
		}
	}

	routes[0].Path = "/mutated"
	if a.Routes()[0].Path != "" {
		t.Error("Routes returned the internal slice")
	}

	for _, asset := range a.Assets() {
		if !strings.HasPrefix(asset.Path, "/frontend/assets/") {
			t.Errorf("asset path %q", asset.Path)
		}
		if filepath.Dir(asset.Src) != dir {
			t.Errorf("asset src %q outside %q", asset.Src, dir)
		}
	}
}

func TestFindResource(t *testing.T) {
	posts := NewMemoryResource("post", "Posts")
	a, err := New(Options{BundleDir: t.TempDir(), Resources: []Resource{posts}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r, err := a.FindResource("post"); err != nil || r != posts {
		t.Fatalf("FindResource(post) = %v, %v", r, err)
	}
	if _, err := a.FindResource("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInitializeWritesBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bundle")
	compDir := t.TempDir()
	chart := filepath.Join(compDir, "chart.js")
	if err := os.WriteFile(chart, []byte("console.log('chart')\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{BundleDir: dir, Components: map[string]string{"Chart": chart}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	select {
	case <-a.Ready():
	default:
		t.Fatal("Ready not closed after Initialize")
	}

	for _, asset := range a.Assets() {
		if _, err := os.Stat(asset.Src); err != nil {
			t.Errorf("%s missing: %v", asset.Src, err)
		}
	}
	bundle, err := os.ReadFile(filepath.Join(dir, ComponentsBundle))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bundle), "console.log('chart')") || !strings.Contains(string(bundle), "/* Chart */") {
		t.Fatalf("component missing from bundle:\n%s", bundle)
	}

	// later calls are no-ops
	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
}

func TestInitializeMissingComponent(t *testing.T) {
	a, err := New(Options{
		BundleDir:  t.TempDir(),
		Components: map[string]string{"Gone": filepath.Join(t.TempDir(), "gone.js")},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize succeeded with a missing component")
	}
	select {
	case <-a.Ready():
		t.Fatal("Ready closed after a failed Initialize")
	default:
	}
}

func TestInitializeCanceled(t *testing.T) {
	a, err := New(Options{BundleDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Initialize(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRenderLogin(t *testing.T) {
	a, err := New(Options{BundleDir: t.TempDir(), Branding: Branding{CompanyName: "Acme"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	html, err := a.RenderLogin(LoginPage{Action: "/admin/login"})
	if err != nil {
		t.Fatalf("RenderLogin: %v", err)
	}
	for _, want := range []string{`action="/admin/login"`, `name="email"`, `name="password"`, "Acme"} {
		if !strings.Contains(html, want) {
			t.Errorf("login page missing %q", want)
		}
	}
	if strings.Contains(html, "data-error") {
		t.Error("error shown without an error message")
	}

	html, err = a.RenderLogin(LoginPage{Action: "/admin/login", ErrorMessage: InvalidCredentials})
	if err != nil {
		t.Fatalf("RenderLogin: %v", err)
	}
	if !strings.Contains(html, `data-error="invalidCredentials"`) || !strings.Contains(html, "Wrong email and/or password") {
		t.Errorf("error not rendered:\n%s", html)
	}
}
