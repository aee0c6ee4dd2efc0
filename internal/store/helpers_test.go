package store

import (
	"time"

	"github.com/tenfreethrows/freethrows/internal/config"
)

func defaultTuning() config.Tuning { return config.DefaultTuning() }

func fixedDay(day string) func() time.Time {
	t, _ := time.ParseInLocation("2006-01-02", day, time.Local)
	t = t.Add(12 * time.Hour)
	return func() time.Time { return t }
}
