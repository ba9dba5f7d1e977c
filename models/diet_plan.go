package models

// DietPlan is one generated plan. Content is the raw serialized plan as the
// generative service returned it: either the current structured JSON encoding
// or the legacy free-text encoding for plans generated before the switch.
// Plans are append-only history; users may delete individual entries.
type DietPlan struct {
	ID              string      `json:"id"`
	CreatedAt       string      `json:"createdAt"` // RFC 3339
	Content         string      `json:"content"`
	ProfileSnapshot UserProfile `json:"profileSnapshot"`
}

// PlanMeal is one meal of a parsed plan.
type PlanMeal struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Preparation []string  `json:"preparation"`
	Nutrition   Nutrition `json:"nutrition"`
}

// DailyTotals is the whole-day nutrition block of a parsed plan.
type DailyTotals struct {
	Description string    `json:"description"`
	Nutrition   Nutrition `json:"nutrition"`
}

// ParsedPlan is the display-ready form of plan content. A degraded fallback
// has empty Meals and carries the raw content in Intro so old or broken plans
// stay viewable.
type ParsedPlan struct {
	Title  string       `json:"title"`
	Intro  string       `json:"intro"`
	Meals  []PlanMeal   `json:"meals"`
	Totals *DailyTotals `json:"totals"`
}

// RecognizedFood is one item the vision service identified on a photo.
// Nutrition values are per single unit; Quantity says how many were seen.
type RecognizedFood struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}
