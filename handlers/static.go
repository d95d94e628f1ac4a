package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var allowedImageExts = map[string]bool{
	".jpg": true,
	".png": true,
	".gif": true,
	".ico": true,
	".svg": true,
}

// StaticImage handles GET /static/*filepath, serving only image files
// from the configured static directory.
func (h *Handler) StaticImage(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(clean) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		return
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(clean))] {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found."})
		return
	}
	c.File(filepath.Join(h.StaticDir, clean))
}
