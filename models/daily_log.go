package models

// FoodItem is one logged food with absolute nutrition values, already scaled
// by quantity at logging time. Quantity itself is not persisted.
type FoodItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}

// Meal groups the food items of one logging action.
type Meal struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Items     []FoodItem `json:"items"`
	CreatedAt string     `json:"createdAt"` // RFC 3339
}

// DailyLog is one calendar day of tracking, keyed by its date string
// (YYYY-MM-DD, which is also its document key). The four goal values are a
// frozen snapshot of the goals in force when the log was created or merged;
// they do not follow later profile changes.
type DailyLog struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Meals       []Meal `json:"meals"`
	WaterIntake int    `json:"waterIntake"` // ml
	CalorieGoal int    `json:"calorieGoal"`
	ProteinGoal int    `json:"proteinGoal"`
	CarbGoal    int    `json:"carbGoal"`
	FatGoal     int    `json:"fatGoal"`
}

// Goals returns the frozen goal snapshot of the log.
func (l *DailyLog) Goals() Goals {
	return Goals{
		CalorieGoal: l.CalorieGoal,
		ProteinGoal: l.ProteinGoal,
		CarbGoal:    l.CarbGoal,
		FatGoal:     l.FatGoal,
	}
}
