package models

// Streak is the singleton per-user record of consecutive achieved days.
// Count is contiguous: any break in day-over-day goal achievement resets it,
// it never skips over a gap.
type Streak struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"` // YYYY-MM-DD, empty when no day counted
}
