package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/StellaShiina/ginadmin/admin"
)

// Asset serves one static file, read whole on every request.
func Asset(asset admin.AssetDescriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		src, err := filepath.Abs(asset.Src)
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("resolve asset %s: %w", asset.Path, err))
			return
		}
		contentType := mime.TypeByExtension(filepath.Ext(src))
		if contentType == "" {
			contentType = binding.MIMEPlain
		}
		data, err := os.ReadFile(src)
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("read asset %s: %w", asset.Path, err))
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}
