package controllers

import (
	"net/http"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/services"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Profiles *services.ProfileService
	DailyLog *services.DailyLogService
}

func NewProfileController(profiles *services.ProfileService, dailyLog *services.DailyLogService) *ProfileController {
	return &ProfileController{Profiles: profiles, DailyLog: dailyLog}
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	profile, err := pc.DailyLog.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile saves the onboarding profile. Pass ?regenerate=false to skip
// regenerating the diet plan; by default saving regenerates it.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	regenerate := c.DefaultQuery("regenerate", "true") != "false"
	if err := pc.Profiles.Save(c.Request.Context(), userID, profile, regenerate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
}

// GetGoals returns the targets the current profile computes to. The values on
// a daily log can differ: those are frozen at log creation.
func (pc *ProfileController) GetGoals(c *gin.Context) {
	userID := c.GetUint("userID")

	profile, err := pc.DailyLog.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services.CalculateGoals(profile))
}
