package models

// Activity levels accepted on a profile. Unknown values fall back to
// moderatelyActive when computing goals.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightlyActive"
	ActivityModeratelyActive = "moderatelyActive"
	ActivityVeryActive       = "veryActive"
	ActivityExtraActive      = "extraActive"
)

const (
	GoalWeightLoss     = "weightLoss"
	GoalMaintainWeight = "maintainWeight"
	GoalWeightGain     = "weightGain"
)

// UserProfile is the onboarding snapshot everything else derives from.
// Stored as a single document per user; mutated only through profile save.
// The save path merge-writes the whole struct, so optional fields must
// serialize even when empty or an emptied value could never clear the
// stored one.
type UserProfile struct {
	Name                    string   `json:"name"`
	Age                     int      `json:"age"`
	Weight                  float64  `json:"weight"` // kg
	Height                  float64  `json:"height"` // cm
	ActivityLevel           string   `json:"activityLevel"`
	WorkRoutine             string   `json:"workRoutine"` // mostlySitting|mixed|mostlyPhysical
	Goals                   string   `json:"goals"`
	DietaryRestrictions     string   `json:"dietaryRestrictions"`
	Location                string   `json:"location"`
	MealsPerDay             int      `json:"mealsPerDay"`
	MealTimes               []string `json:"mealTimes"`
	DiningOutFrequency      string   `json:"diningOutFrequency"` // rarely|occasionally|frequently
	FoodPreference          string   `json:"foodPreference"`     // home-cooked|outside-food|balanced
	AlcoholConsumption      string   `json:"alcoholConsumption"` // none|socially|regularly
	SmokingHabits           string   `json:"smokingHabits"`      // none|occasionally|regularly
	MedicalConditions       []string `json:"medicalConditions"`
	CustomMedicalConditions string   `json:"customMedicalConditions"`
	WaterIntakeGoal         int      `json:"waterIntakeGoal"` // ml, >= 1000
}
