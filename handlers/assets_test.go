package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/admin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveAsset(t *testing.T, src string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/asset", Asset(admin.AssetDescriptor{Path: "/asset", Src: src}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/asset", nil))
	return w
}

func TestAssetContentType(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file, wantType string
	}{
		{"app.css", "text/css"},
		{"app.js", "javascript"},
		{"data.unknownext", "text/plain"},
	}
	for _, tt := range tests {
		src := filepath.Join(dir, tt.file)
		if err := os.WriteFile(src, []byte("body of "+tt.file), 0o644); err != nil {
			t.Fatal(err)
		}
		w := serveAsset(t, src)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: code = %d", tt.file, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.wantType) {
			t.Errorf("%s: content type = %q, want %q", tt.file, ct, tt.wantType)
		}
		if w.Body.String() != "body of "+tt.file {
			t.Errorf("%s: body = %q", tt.file, w.Body.String())
		}
	}
}

func TestAssetMissingFile(t *testing.T) {
	w := serveAsset(t, filepath.Join(t.TempDir(), "not-built-yet.js"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", w.Code)
	}
}
