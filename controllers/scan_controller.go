package controllers

import (
	"context"
	"net/http"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/services"

	"github.com/gin-gonic/gin"
)

// FoodRecognizer is the vision flow: photo in, recognized items out.
type FoodRecognizer interface {
	RecognizeFood(ctx context.Context, photoDataURI string) ([]models.RecognizedFood, error)
}

type ScanController struct {
	Recognizer FoodRecognizer
	DailyLog   *services.DailyLogService
}

func NewScanController(recognizer FoodRecognizer, dailyLog *services.DailyLogService) *ScanController {
	return &ScanController{Recognizer: recognizer, DailyLog: dailyLog}
}

// RecognizeFood identifies food items on a photo. The response carries
// per-single-unit nutrition with a quantity per item; nothing is logged yet.
func (sc *ScanController) RecognizeFood(c *gin.Context) {
	var body struct {
		PhotoDataURI string `json:"photoDataUri" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := sc.Recognizer.RecognizeFood(c.Request.Context(), body.PhotoDataURI)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not recognize food. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"foodItems": items})
}

// LogRecognized turns a confirmed recognition result into a logged meal,
// scaling per-unit values by quantity into the absolute values a FoodItem
// stores.
func (sc *ScanController) LogRecognized(c *gin.Context) {
	userID := c.GetUint("userID")

	var body struct {
		Name  string                  `json:"name" binding:"required"`
		Items []models.RecognizedFood `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	foodItems := make([]models.FoodItem, len(body.Items))
	for i, rec := range body.Items {
		qty := rec.Quantity
		if qty <= 0 {
			qty = 1
		}
		foodItems[i] = models.FoodItem{
			Name:          rec.Name,
			Calories:      rec.Calories * qty,
			Protein:       rec.Protein * qty,
			Carbohydrates: rec.Carbohydrates * qty,
			Fat:           rec.Fat * qty,
		}
	}

	meal, err := sc.DailyLog.AddMeal(c.Request.Context(), userID, body.Name, foodItems)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if meal == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, meal)
}
