// Package sleep tracks nightly sleep sessions, the sleep debt they build up
// and the plan to recover from it.
package sleep

import (
	"fmt"
	"time"

	"github.com/iwvelando/calcdash/pkg/datetime"
)

// Qualities are the sleep quality ratings, worst first.
var Qualities = []string{"Poor", "Fair", "Good", "Excellent"}

// Record is one entry of the sleep_data log. Duration is in hours.
type Record struct {
	Date      string  `json:"date"`
	SleepTime string  `json:"sleep_time"`
	WakeTime  string  `json:"wake_time"`
	Duration  float64 `json:"duration"`
	Quality   string  `json:"quality"`
}

// NewRecord builds the record of a night that started on date. The duration
// runs forward from sleepTime to the next occurrence of wakeTime.
func NewRecord(date time.Time, sleepTime, wakeTime, quality string) (Record, error) {
	d, err := datetime.ForwardDuration(sleepTime, wakeTime)
	if err != nil {
		return Record{}, err
	}
	r := Record{
		Date:      datetime.FormatDay(date),
		SleepTime: sleepTime,
		WakeTime:  wakeTime,
		Duration:  d.Hours(),
		Quality:   quality,
	}
	return r, r.Validate()
}

// maxStoredDuration bounds stored durations. Older logs always put the wake
// time on the next day, so a night starting after midnight reads up to 48h.
const maxStoredDuration = 48

// Validate checks the record fields.
func (r Record) Validate() error {
	if err := r.ValidateStored(); err != nil {
		return err
	}
	if r.Duration > 24 {
		return fmt.Errorf("sleep duration must be in (0, 24] hours, got %v", r.Duration)
	}
	return nil
}

// ValidateStored checks a record read back from storage.
func (r Record) ValidateStored() error {
	if _, err := datetime.ParseDay(r.Date); err != nil {
		return err
	}
	if _, err := datetime.ParseClock(r.SleepTime); err != nil {
		return err
	}
	if _, err := datetime.ParseClock(r.WakeTime); err != nil {
		return err
	}
	if r.Duration <= 0 || r.Duration >= maxStoredDuration {
		return fmt.Errorf("sleep duration must be in (0, %d) hours, got %v", maxStoredDuration, r.Duration)
	}
	if !IsQuality(r.Quality) {
		return fmt.Errorf("unknown sleep quality %q", r.Quality)
	}
	return nil
}

// IsQuality reports whether q is one of Qualities.
func IsQuality(q string) bool {
	for _, known := range Qualities {
		if q == known {
			return true
		}
	}
	return false
}

// Debt returns the hours slept short of the target, never negative.
func Debt(hours, target float64) float64 {
	if hours >= target {
		return 0
	}
	return target - hours
}
