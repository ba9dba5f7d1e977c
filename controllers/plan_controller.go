package controllers

import (
	"net/http"

	"github.com/rishikeshvarma/NutriVision/services"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	Plans    *services.PlanService
	DailyLog *services.DailyLogService
}

func NewPlanController(plans *services.PlanService, dailyLog *services.DailyLogService) *PlanController {
	return &PlanController{Plans: plans, DailyLog: dailyLog}
}

func (pc *PlanController) ListPlans(c *gin.Context) {
	userID := c.GetUint("userID")

	plans, err := pc.Plans.Plans(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// LatestPlan returns the newest plan together with its normalized,
// display-ready form. Old free-text plans come back through the same
// normalizer, degraded to a raw-content fallback when unparseable.
func (pc *PlanController) LatestPlan(c *gin.Context) {
	userID := c.GetUint("userID")

	plan, err := pc.Plans.Latest(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no plan generated yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":   plan,
		"parsed": services.ParsePlanContent(plan.Content),
	})
}

func (pc *PlanController) GeneratePlan(c *gin.Context) {
	userID := c.GetUint("userID")

	profile, err := pc.DailyLog.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "complete onboarding first"})
		return
	}

	plan, err := pc.Plans.Generate(c.Request.Context(), userID, *profile)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate your diet plan. Please try again."})
		return
	}
	if plan == nil {
		c.JSON(http.StatusAccepted, gin.H{"message": "generation already in progress"})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// EnsurePlan runs the once-per-day freshness check, generating a plan when
// none exists for today. Clients call it on dashboard load.
func (pc *PlanController) EnsurePlan(c *gin.Context) {
	userID := c.GetUint("userID")

	profile, err := pc.DailyLog.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "complete onboarding first"})
		return
	}

	triggered, err := pc.Plans.EnsureDailyPlan(c.Request.Context(), userID, *profile)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate your diet plan. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": triggered})
}

func (pc *PlanController) DeletePlan(c *gin.Context) {
	userID := c.GetUint("userID")
	planID := c.Param("id")

	if err := pc.Plans.Delete(c.Request.Context(), userID, planID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}
