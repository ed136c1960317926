package sleep

import (
	"math"
	"testing"

	"github.com/iwvelando/calcdash/pkg/datetime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func night(t *testing.T, date, sleepAt, wakeAt, quality string) Record {
	t.Helper()
	r, err := NewRecord(datetime.MustParseTime(datetime.DateLayout, date), sleepAt, wakeAt, quality)
	require.NoError(t, err)
	return r
}

func TestNewRecordDuration(t *testing.T) {
	tests := []struct {
		name     string
		sleepAt  string
		wakeAt   string
		expected float64
	}{
		{"Before midnight", "22:00", "06:00", 8},
		{"After midnight", "01:00", "07:00", 6},
		{"Half hours", "23:30", "06:15", 6.75},
		{"Afternoon nap", "13:00", "14:30", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := night(t, "2025-01-01", tt.sleepAt, tt.wakeAt, "Good")
			if math.Abs(r.Duration-tt.expected) > 1e-9 {
				t.Errorf("Duration = %v, expected %v", r.Duration, tt.expected)
			}
		})
	}
}

func TestNewRecordRejects(t *testing.T) {
	day := datetime.MustParseTime(datetime.DateLayout, "2025-01-01")

	_, err := NewRecord(day, "10pm", "06:00", "Good")
	assert.Error(t, err)
	_, err = NewRecord(day, "22:00", "06:00", "Restless")
	assert.Error(t, err)
}

func TestRecordValidateStored(t *testing.T) {
	tests := []struct {
		name         string
		duration     float64
		storedOK     bool
		appendableOK bool
	}{
		{"Regular night", 8, true, true},
		{"Wake time pushed a day", 30.5, true, false},
		{"Zero", 0, false, false},
		{"Two days", 48, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Date: "2024-01-02", SleepTime: "00:30", WakeTime: "07:00", Duration: tt.duration, Quality: "Good"}
			assert.Equal(t, tt.storedOK, r.ValidateStored() == nil)
			assert.Equal(t, tt.appendableOK, r.Validate() == nil)
		})
	}
}

func TestDebt(t *testing.T) {
	assert.Equal(t, 2.0, Debt(6, 8))
	assert.Equal(t, 0.0, Debt(9, 8))
	assert.Equal(t, 0.0, Debt(8, 8))
}

func TestAnalyzeEmpty(t *testing.T) {
	stats, err := Analyze(nil, 8)
	require.NoError(t, err)
	assert.Zero(t, stats.AverageDuration)
	assert.Zero(t, stats.TotalDebt)
	assert.Zero(t, stats.Consistency)
	assert.Empty(t, stats.QualityCounts)
	assert.Equal(t, make([]bool, 24), stats.AsleepHours)
}

func TestAnalyze(t *testing.T) {
	records := []Record{
		night(t, "2025-01-01", "22:00", "06:00", "Good"),
		night(t, "2025-01-02", "23:00", "05:00", "Poor"),
		night(t, "2025-01-03", "22:00", "07:00", "Good"),
	}

	stats, err := Analyze(records, 8)
	require.NoError(t, err)

	assert.InDelta(t, 23.0/3, stats.AverageDuration, 1e-9)
	assert.InDelta(t, 2.0, stats.TotalDebt, 1e-9)
	assert.InDelta(t, math.Sqrt(7.0/3), stats.Consistency, 1e-9)
	assert.InDelta(t, 67.0/3, stats.AverageSleepHour, 1e-9)
	assert.InDelta(t, 6.0, stats.AverageWakeHour, 1e-9)

	require.Len(t, stats.QualityCounts, 2)
	assert.Equal(t, "Good", stats.QualityCounts[0].Key)
	assert.Equal(t, 2, stats.QualityCounts[0].Count)

	require.Len(t, stats.AsleepHours, 24)
	assert.True(t, stats.AsleepHours[0])
	assert.True(t, stats.AsleepHours[6])
	assert.False(t, stats.AsleepHours[7])
	assert.False(t, stats.AsleepHours[22])
	assert.True(t, stats.AsleepHours[23])

	require.Len(t, stats.DurationTrend, 3)
	assert.Equal(t, 6.0, stats.DurationTrend[1].Value)
}

func TestRecoveryDays(t *testing.T) {
	tests := []struct {
		debt     float64
		maxExtra float64
		expected int
	}{
		{9, 2, 4},
		{3, 2, 2},
		{5, 2, 2},
		{0.4, 2, 0},
		{7, 2, 4},
	}

	for _, tt := range tests {
		if got := RecoveryDays(tt.debt, tt.maxExtra); got != tt.expected {
			t.Errorf("RecoveryDays(%v, %v) = %d, expected %d", tt.debt, tt.maxExtra, got, tt.expected)
		}
	}
}

func TestPlanRecovery(t *testing.T) {
	records := []Record{
		night(t, "2025-01-01", "01:00", "06:00", "Fair"),
		night(t, "2025-01-02", "01:00", "06:00", "Fair"),
		night(t, "2025-01-03", "01:00", "07:00", "Poor"),
	}

	plan, err := PlanRecovery(records, 8, 2)
	require.NoError(t, err)
	assert.InDelta(t, 16.0/3, plan.RecentAverage, 1e-9)
	assert.InDelta(t, 8.0, plan.Debt, 1e-9)
	assert.Equal(t, 4, plan.Days)
	require.Len(t, plan.Schedule, 4)
	for i, d := range plan.Schedule {
		assert.Equal(t, i+1, d.Day)
		assert.Equal(t, 2.0, d.ExtraSleep)
		assert.Equal(t, 10.0, d.TotalTarget)
	}

	assert.Contains(t, plan.Tips, "Aim to sleep by 01:00 and wake up by 06:00")
	assert.Contains(t, plan.Tips, "Prioritize sleep by going to bed earlier")
	assert.Contains(t, plan.Tips, "Improve sleep environment (temperature, darkness, noise)")
}

func TestPlanRecoveryPartialLastDay(t *testing.T) {
	records := []Record{night(t, "2025-01-01", "23:00", "04:00", "Good")}

	plan, err := PlanRecovery(records, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Days)
	require.Len(t, plan.Schedule, 2)
	assert.Equal(t, 2.0, plan.Schedule[0].ExtraSleep)
	assert.Equal(t, 1.0, plan.Schedule[1].ExtraSleep)
	assert.Equal(t, 9.0, plan.Schedule[1].TotalTarget)
}

func TestPlanRecoveryUsesLastSevenNights(t *testing.T) {
	records := []Record{night(t, "2025-01-01", "23:00", "01:00", "Poor")}
	for i := 0; i < 7; i++ {
		records = append(records, night(t, "2025-01-02", "22:00", "07:00", "Excellent"))
	}

	plan, err := PlanRecovery(records, 8, 2)
	require.NoError(t, err)
	assert.Zero(t, plan.Debt)
	assert.Zero(t, plan.Days)
	assert.Empty(t, plan.Schedule)
	assert.Len(t, plan.Tips, 3)
}

func TestPlanRecoveryBounds(t *testing.T) {
	_, err := PlanRecovery(nil, 5, 2)
	assert.Error(t, err)
	_, err = PlanRecovery(nil, 8, 0.1)
	assert.Error(t, err)

	plan, err := PlanRecovery(nil, 8, 2)
	require.NoError(t, err)
	assert.Zero(t, plan.Days)
	assert.Empty(t, plan.Tips)
}
