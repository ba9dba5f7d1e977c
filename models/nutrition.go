package models

// Nutrition is the shared value type for calories and macros. All values are
// bare numbers with no units embedded (kcal for calories, grams otherwise).
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
}

// Goals holds the four daily targets derived from a profile. A copy is frozen
// onto each daily log when the log is created or merged.
type Goals struct {
	CalorieGoal int `json:"calorieGoal"`
	ProteinGoal int `json:"proteinGoal"`
	CarbGoal    int `json:"carbGoal"`
	FatGoal     int `json:"fatGoal"`
}
