package controllers

import (
	"net/http"

	"github.com/rishikeshvarma/NutriVision/services"

	"github.com/gin-gonic/gin"
)

type StreakController struct {
	Streaks *services.StreakService
}

func NewStreakController(streaks *services.StreakService) *StreakController {
	return &StreakController{Streaks: streaks}
}

func (sc *StreakController) GetStreak(c *gin.Context) {
	userID := c.GetUint("userID")

	streak, err := sc.Streaks.Current(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, streak)
}
