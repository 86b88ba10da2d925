package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/nutrition"
)

// NutrientHandler serves the static nutrient reference data.
type NutrientHandler struct{}

// NewNutrientHandler creates a new NutrientHandler
func NewNutrientHandler() *NutrientHandler {
	return &NutrientHandler{}
}

// RegisterRoutes registers the nutrient reference routes
func (h *NutrientHandler) RegisterRoutes(router *gin.RouterGroup) {
	nutrients := router.Group("/nutrients")
	{
		nutrients.GET("", h.ListNutrients)
		nutrients.GET("/:name", h.GetNutrient)
	}
}

type nutrientReferenceResponse struct {
	Name        string  `json:"name"`
	DailyValue  float64 `json:"daily_value"`
	Unit        string  `json:"unit"`
	IsLimit     bool    `json:"is_limit"`
	Description string  `json:"description,omitempty"`
}

func (h *NutrientHandler) ListNutrients(c *gin.Context) {
	refs := nutrition.References()
	slugs := make([]string, 0, len(refs))
	for slug := range refs {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	out := make([]nutrientReferenceResponse, 0, len(slugs))
	for _, slug := range slugs {
		ref := refs[slug]
		out = append(out, nutrientReferenceResponse{
			Name:        nutrition.TitleFromSlug(slug),
			DailyValue:  ref.Amount,
			Unit:        ref.Unit,
			IsLimit:     ref.IsLimit,
			Description: nutrition.Describe(slug),
		})
	}
	c.JSON(http.StatusOK, gin.H{"nutrients": out})
}

func (h *NutrientHandler) GetNutrient(c *gin.Context) {
	name := c.Param("name")
	ref, ok := nutrition.LookupReference(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown nutrient"})
		return
	}
	c.JSON(http.StatusOK, nutrientReferenceResponse{
		Name:        nutrition.TitleFromSlug(nutrition.SlugName(name)),
		DailyValue:  ref.Amount,
		Unit:        ref.Unit,
		IsLimit:     ref.IsLimit,
		Description: nutrition.Describe(name),
	})
}
