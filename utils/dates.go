package utils

import "time"

const DateLayout = "2006-01-02"

// DayString formats t as the local calendar date used to key daily logs.
func DayString(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

func Today() string {
	return DayString(time.Now())
}

func Yesterday() string {
	return DayString(time.Now().AddDate(0, 0, -1))
}
