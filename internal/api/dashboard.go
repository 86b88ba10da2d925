package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	mealService service.IMealService
	validator   middleware.TokenValidator
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(mealService service.IMealService, validator middleware.TokenValidator) *DashboardHandler {
	return &DashboardHandler{
		mealService: mealService,
		validator:   validator,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(h.validator))
	{
		dashboard.GET("/summary", h.GetDailySummary)
	}
}

// GetDailySummary returns the day's logged meals, nutrient totals and
// progress against the user's personalized targets. The date query
// parameter defaults to today (UTC).
func (h *DashboardHandler) GetDailySummary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	day := time.Now().UTC()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			middleware.RespondWithError(c, service.NewInputError("date", "must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	summary, err := h.mealService.GetDailySummary(c.Request.Context(), *userID, day)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
