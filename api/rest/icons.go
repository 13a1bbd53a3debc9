package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teralab/itemdex/icon"
)

// IconHandler serves icon assets referenced by search results.
type IconHandler struct {
	loader *icon.Loader
}

// NewIconHandler creates an IconHandler.
func NewIconHandler(loader *icon.Loader) *IconHandler {
	return &IconHandler{loader: loader}
}

// Get handles GET /api/icons/:ref where ref is the dotted icon reference.
func (h *IconHandler) Get(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" || strings.ContainsAny(ref, "/\\") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad icon reference"})
		return
	}
	c.File(h.loader.Path(ref))
}
