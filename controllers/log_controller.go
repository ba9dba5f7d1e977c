package controllers

import (
	"net/http"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/services"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	DailyLog *services.DailyLogService
}

func NewLogController(dailyLog *services.DailyLogService) *LogController {
	return &LogController{DailyLog: dailyLog}
}

func (lc *LogController) TodayLog(c *gin.Context) {
	userID := c.GetUint("userID")

	log, err := lc.DailyLog.TodayLog(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if log == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "complete onboarding first"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": log, "consumed": services.ConsumedTotals(log)})
}

func (lc *LogController) ListLogs(c *gin.Context) {
	userID := c.GetUint("userID")

	logs, err := lc.DailyLog.Logs(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (lc *LogController) LogByDate(c *gin.Context) {
	userID := c.GetUint("userID")
	date := c.Param("date")

	log, err := lc.DailyLog.LogForDate(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if log == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no log for date"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": log, "consumed": services.ConsumedTotals(log)})
}

func (lc *LogController) LogMeal(c *gin.Context) {
	userID := c.GetUint("userID")

	var body struct {
		Name  string            `json:"name" binding:"required"`
		Items []models.FoodItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := lc.DailyLog.AddMeal(c.Request.Context(), userID, body.Name, body.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if meal == nil {
		// Mutation skipped: no profile yet.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (lc *LogController) RemoveFoodItem(c *gin.Context) {
	userID := c.GetUint("userID")
	mealID := c.Param("mealID")
	itemID := c.Param("itemID")
	date := c.Query("date")

	if err := lc.DailyLog.RemoveFoodItem(c.Request.Context(), userID, mealID, itemID, date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "food item removed"})
}

func (lc *LogController) AddWater(c *gin.Context) {
	userID := c.GetUint("userID")

	var body struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := lc.DailyLog.AddWater(c.Request.Context(), userID, body.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if log == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"waterIntake": log.WaterIntake})
}
