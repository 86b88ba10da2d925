package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/nutrition"
	"github.com/platewise/backend/internal/service"
)

// MealHandler handles meal photo analysis requests
type MealHandler struct {
	mealService service.IMealService
	rateLimiter *middleware.RateLimiter
	validator   middleware.TokenValidator
}

// NewMealHandler creates a new MealHandler
func NewMealHandler(mealService service.IMealService, rateLimiter *middleware.RateLimiter, validator middleware.TokenValidator) *MealHandler {
	return &MealHandler{
		mealService: mealService,
		rateLimiter: rateLimiter,
		validator:   validator,
	}
}

// RegisterRoutes registers the meal routes
func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	meals.Use(middleware.OptionalAuthMiddleware(h.validator))
	{
		analyze := meals.Group("")
		if h.rateLimiter != nil {
			analyze.Use(h.rateLimiter.RateLimitMiddleware())
		}
		analyze.POST("/analyze", h.AnalyzeMeal)

		meals.GET("", h.ListMeals)
		meals.GET("/:id", h.GetMeal)
		meals.GET("/:id/insights", h.GetInsights)
	}
}

// AnalyzeMeal accepts a multipart meal photo plus an optional profile
// override and runs the analysis pipeline.
func (h *MealHandler) AnalyzeMeal(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageBytes+1<<20)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		middleware.RespondWithError(c, service.NewInputError("image", "multipart field 'image' is required"))
		return
	}
	defer func() { _ = file.Close() }()

	imageData, err := io.ReadAll(io.LimitReader(file, service.MaxImageBytes+1))
	if err != nil {
		middleware.RespondWithError(c, service.NewInputError("image", "failed to read upload"))
		return
	}

	var partial *nutrition.Profile
	if raw := c.Request.FormValue("profile"); raw != "" {
		partial = &nutrition.Profile{}
		if err := json.Unmarshal([]byte(raw), partial); err != nil {
			middleware.RespondWithError(c, service.NewInputError("profile", "profile must be a JSON object"))
			return
		}
	}

	userID := middleware.UserIDFromContext(c)
	record, err := h.mealService.AnalyzeMeal(c.Request.Context(), userID, imageData, partial)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMealResponse(record))
}

// GetMeal returns one stored analysis.
func (h *MealHandler) GetMeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.RespondWithError(c, service.NewInputError("id", "must be a UUID"))
		return
	}

	record, err := h.mealService.GetMeal(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMealResponse(record))
}

// ListMeals returns the authenticated user's analysis history.
func (h *MealHandler) ListMeals(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required for meal history"})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	records, err := h.mealService.ListMeals(c.Request.Context(), *userID, limit)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	out := make([]MealResponse, 0, len(records))
	for i := range records {
		out = append(out, toMealResponse(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"meals": out, "count": len(out)})
}

// GetInsights reports the insight job state for an analysis.
func (h *MealHandler) GetInsights(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.RespondWithError(c, service.NewInputError("id", "must be a UUID"))
		return
	}

	status, err := h.mealService.GetInsights(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
