package sleep

import (
	"fmt"
	"math"

	"github.com/iwvelando/calcdash/pkg/aggregate"
	"github.com/iwvelando/calcdash/pkg/datetime"
	"github.com/iwvelando/calcdash/pkg/mathutil"
)

// recentNights is the window of the recovery plan.
const recentNights = 7

// Bounds of the recovery plan inputs.
const (
	MinTargetHours   = 6.0
	MaxTargetHours   = 10.0
	MinExtraSleep    = 0.5
	MaxExtraSleep    = 4.0
	shortSleepHours  = 7.0
	bestQualityLabel = "Excellent"
)

// Stats summarizes all logged nights.
type Stats struct {
	AverageDuration  float64           `json:"average_duration"`
	TotalDebt        float64           `json:"total_debt"`
	QualityCounts    []aggregate.Group `json:"quality_counts"`
	Consistency      float64           `json:"consistency"`
	AverageSleepHour float64           `json:"average_sleep_hour"`
	AverageWakeHour  float64           `json:"average_wake_hour"`
	AsleepHours      []bool            `json:"asleep_hours"`
	DurationTrend    []aggregate.Point `json:"duration_trend"`
}

// Analyze computes the sleep statistics against a nightly target.
func Analyze(records []Record, target float64) (Stats, error) {
	sleepHours := make([]float64, 0, len(records))
	wakeHours := make([]float64, 0, len(records))
	trend := make([]aggregate.Point, 0, len(records))
	for _, r := range records {
		sh, err := datetime.ClockHour(r.SleepTime)
		if err != nil {
			return Stats{}, err
		}
		wh, err := datetime.ClockHour(r.WakeTime)
		if err != nil {
			return Stats{}, err
		}
		sleepHours = append(sleepHours, float64(sh))
		wakeHours = append(wakeHours, float64(wh))
		trend = append(trend, aggregate.Point{Bucket: r.Date, Value: r.Duration})
	}

	durations := aggregate.Values(records, duration)
	stats := Stats{
		AverageDuration:  mathutil.Mean(durations),
		TotalDebt:        TotalDebt(records, target),
		QualityCounts:    aggregate.GroupCount(records, quality),
		Consistency:      mathutil.StdDev(durations),
		AverageSleepHour: mathutil.Mean(sleepHours),
		AverageWakeHour:  mathutil.Mean(wakeHours),
		AsleepHours:      make([]bool, 24),
		DurationTrend:    trend,
	}
	if len(records) > 0 {
		stats.AsleepHours = AsleepWindow(stats.AverageSleepHour, stats.AverageWakeHour)
	}
	return stats, nil
}

// TotalDebt sums the per-night debt against target.
func TotalDebt(records []Record, target float64) float64 {
	return aggregate.Sum(records, func(r Record) float64 { return Debt(r.Duration, target) })
}

// AsleepWindow flags each hour of the day at or after the average sleep hour
// or at or before the average wake hour.
func AsleepWindow(avgSleepHour, avgWakeHour float64) []bool {
	flags := make([]bool, 24)
	for h := range flags {
		flags[h] = float64(h) >= avgSleepHour || float64(h) <= avgWakeHour
	}
	return flags
}

// RecoveryDay is one day of a recovery schedule.
type RecoveryDay struct {
	Day         int     `json:"day"`
	ExtraSleep  float64 `json:"extra_sleep"`
	TotalTarget float64 `json:"total_target"`
}

// Recovery is the plan to pay back the debt of the most recent nights.
type Recovery struct {
	RecentAverage float64       `json:"recent_average"`
	Debt          float64       `json:"debt"`
	Days          int           `json:"days"`
	Schedule      []RecoveryDay `json:"schedule"`
	Tips          []string      `json:"tips"`
}

// PlanRecovery builds the recovery plan over the last seven nights, sleeping
// at most maxExtra additional hours per day.
func PlanRecovery(records []Record, target, maxExtra float64) (Recovery, error) {
	if target < MinTargetHours || target > MaxTargetHours {
		return Recovery{}, fmt.Errorf("target sleep must be %.0f to %.0f hours, got %v", MinTargetHours, MaxTargetHours, target)
	}
	if maxExtra < MinExtraSleep || maxExtra > MaxExtraSleep {
		return Recovery{}, fmt.Errorf("extra sleep per day must be %.1f to %.1f hours, got %v", MinExtraSleep, MaxExtraSleep, maxExtra)
	}

	recent := records
	if len(recent) > recentNights {
		recent = recent[len(recent)-recentNights:]
	}

	debt := TotalDebt(recent, target)
	plan := Recovery{
		RecentAverage: aggregate.Mean(recent, duration),
		Debt:          debt,
		Schedule:      []RecoveryDay{},
		Tips:          Tips(records),
	}
	if debt <= 0 {
		return plan, nil
	}

	plan.Days = RecoveryDays(debt, maxExtra)
	remaining := debt
	for day := 1; day <= plan.Days; day++ {
		extra := mathutil.Min(maxExtra, remaining)
		plan.Schedule = append(plan.Schedule, RecoveryDay{
			Day:         day,
			ExtraSleep:  extra,
			TotalTarget: target + extra,
		})
		remaining -= extra
	}
	return plan, nil
}

// RecoveryDays returns debt/maxExtra rounded half to even.
func RecoveryDays(debt, maxExtra float64) int {
	return int(math.RoundToEven(debt / maxExtra))
}

// Tips returns sleep hygiene advice for the logged nights. No nights yield no
// tips.
func Tips(records []Record) []string {
	if len(records) == 0 {
		return []string{}
	}

	sleepAt, _ := aggregate.Mode(records, func(r Record) string { return r.SleepTime })
	wakeAt, _ := aggregate.Mode(records, func(r Record) string { return r.WakeTime })
	tips := []string{
		"Maintain a consistent sleep schedule, even on weekends",
		fmt.Sprintf("Aim to sleep by %s and wake up by %s", sleepAt, wakeAt),
		"Create a relaxing bedtime routine",
	}

	recent := records
	if len(recent) > recentNights {
		recent = recent[len(recent)-recentNights:]
	}
	if aggregate.Mean(recent, duration) < shortSleepHours {
		tips = append(tips, "Prioritize sleep by going to bed earlier")
	}
	if counts := aggregate.GroupCount(records, quality); counts[0].Key != bestQualityLabel {
		tips = append(tips, "Improve sleep environment (temperature, darkness, noise)")
	}
	return tips
}

func duration(r Record) float64 { return r.Duration }
func quality(r Record) string   { return r.Quality }
