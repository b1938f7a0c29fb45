package utils

import "time"

// TruncateToDay zera a parte de horário mantendo a data em UTC
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
