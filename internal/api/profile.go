package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/nutrition"
	"github.com/platewise/backend/internal/service"
)

// ProfileHandler handles biometric profile requests
type ProfileHandler struct {
	profileService service.IProfileService
	validator      middleware.TokenValidator
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.IProfileService, validator middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      validator,
	}
}

// RegisterRoutes registers the profile routes
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.validator))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/history", h.GetHistory)
		profile.GET("/targets", h.GetTargets)
	}
}

// GetProfile returns the stored profile plus its completeness state.
// A user with no stored profile gets an empty profile, not a 404, so
// the frontend can render the onboarding form.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stored, err := h.profileService.GetProfile(c.Request.Context(), *userID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		middleware.RespondWithError(c, err)
		return
	}

	var partial *nutrition.Profile
	if stored != nil {
		partial = stored.ToPartial()
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":        stored,
		"missing_fields": nutrition.MissingFields(partial),
		"complete":       nutrition.IsComplete(partial),
	})
}

// UpdateProfile overlays the provided fields onto the stored profile
// and returns the recalculated targets alongside.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req nutrition.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, service.NewInputError("profile", "invalid request body"))
		return
	}
	if err := validateProfileInput(&req); err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	stored, err := h.profileService.UpdateProfile(c.Request.Context(), *userID, &req)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	resolved := nutrition.Complete(*stored.ToPartial())
	c.JSON(http.StatusOK, gin.H{
		"profile": stored,
		"targets": targetsResponse(resolved),
	})
}

// GetTargets returns the derived daily targets for the stored profile.
func (h *ProfileHandler) GetTargets(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stored, err := h.profileService.GetProfile(c.Request.Context(), *userID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		middleware.RespondWithError(c, err)
		return
	}

	var partial nutrition.Profile
	if stored != nil {
		partial = *stored.ToPartial()
	}
	resolved := nutrition.Complete(partial)

	c.JSON(http.StatusOK, targetsResponse(resolved))
}

// GetHistory returns the profile change log.
func (h *ProfileHandler) GetHistory(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	history, err := h.profileService.GetProfileHistory(c.Request.Context(), *userID)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func validateProfileInput(p *nutrition.Profile) error {
	if p.Age < 0 || p.Age > 120 {
		return service.NewInputError("age", "must be between 0 and 120")
	}
	if p.Weight < 0 || p.Weight > 1500 {
		return service.NewInputError("weight", "out of range")
	}
	if p.Height < 0 || p.Height > 300 {
		return service.NewInputError("height", "out of range")
	}
	return nil
}

func targetsResponse(p *nutrition.ResolvedProfile) gin.H {
	return gin.H{
		"bmi":             p.BMI,
		"bmr":             p.BMR,
		"tdee":            p.TDEE,
		"target_calories": p.TargetCalories,
		"weight_in_kg":    p.WeightKg,
		"height_in_cm":    p.HeightCm,
	}
}
