package services

import (
	"math"

	"github.com/rishikeshvarma/NutriVision/models"
)

// Baseline goals for users that have not completed onboarding yet.
var defaultGoals = models.Goals{
	CalorieGoal: 2000,
	ProteinGoal: 150,
	CarbGoal:    200,
	FatGoal:     60,
}

var activityMultipliers = map[string]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtraActive:      1.9,
}

var goalAdjustments = map[string]float64{
	models.GoalWeightLoss:     -500,
	models.GoalMaintainWeight: 0,
	models.GoalWeightGain:     500,
}

type macroRatio struct{ p, c, f float64 }

var macroRatios = map[string]macroRatio{
	models.GoalWeightLoss:     {p: 0.4, c: 0.3, f: 0.3},
	models.GoalMaintainWeight: {p: 0.3, c: 0.4, f: 0.3},
	models.GoalWeightGain:     {p: 0.3, c: 0.5, f: 0.2},
}

// CalculateGoals derives the four daily targets from a profile. Deterministic
// and side-effect free; the result gets frozen onto daily logs. A nil profile
// yields the fixed defaults.
func CalculateGoals(profile *models.UserProfile) models.Goals {
	if profile == nil {
		return defaultGoals
	}

	// Harris-Benedict style BMR. The profile carries no sex field, so the
	// sex coefficient is a fixed +5.
	bmr := 10*profile.Weight + 6.25*profile.Height - 5*float64(profile.Age) + 5

	mult, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		mult = activityMultipliers[models.ActivityModeratelyActive]
	}
	tdee := bmr * mult

	calorieGoal := math.Round(tdee + goalAdjustments[profile.Goals])

	ratios, ok := macroRatios[profile.Goals]
	if !ok {
		ratios = macroRatios[models.GoalMaintainWeight]
	}

	// 4 kcal per gram of protein and carbohydrate, 9 per gram of fat.
	return models.Goals{
		CalorieGoal: int(calorieGoal),
		ProteinGoal: int(math.Round(calorieGoal * ratios.p / 4)),
		CarbGoal:    int(math.Round(calorieGoal * ratios.c / 4)),
		FatGoal:     int(math.Round(calorieGoal * ratios.f / 9)),
	}
}
