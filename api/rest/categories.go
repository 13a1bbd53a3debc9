package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryGroup is a named group of category tags for filter UIs. Grouping
// is purely presentational; the search engine only sees the flat tags.
type CategoryGroup struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// categoryGroups mirrors the category tags found in the item exports.
var categoryGroups = []CategoryGroup{
	{Name: "Weapons", Categories: []string{
		"axe", "twohand", "lance", "dual", "rod", "staff",
		"bow", "circle", "chain", "blaster", "gauntlet", "shuriken", "glaive",
	}},
	{Name: "Armor", Categories: []string{
		"bodyRobe", "handRobe", "feetRobe",
		"bodyLeather", "handLeather", "feetLeather",
		"bodyMail", "handMail", "feetMail",
		"underwear",
	}},
	{Name: "Jewelry", Categories: []string{
		"ring", "earring", "necklace", "belt", "brooch", "accessoryFace",
	}},
	{Name: "Other", Categories: []string{
		"crest", "skillbook", "combat", "quest",
	}},
}

// CategoryHandler serves the static category groups.
type CategoryHandler struct{}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": categoryGroups})
}
