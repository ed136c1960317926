package task

import (
	"github.com/iwvelando/calcdash/pkg/aggregate"
)

// Report summarizes the estimate history.
type Report struct {
	TotalTasks     int               `json:"total_tasks"`
	TotalHours     float64           `json:"total_hours"`
	AverageHours   float64           `json:"average_hours"`
	ByComplexity   []aggregate.Group `json:"by_complexity"`
	ByType         []aggregate.Group `json:"by_type"`
	TimeByType     []aggregate.Group `json:"time_by_type"`
	MostCommonType string            `json:"most_common_type,omitempty"`
}

// Analyze aggregates the estimated hours of the task history.
func Analyze(tasks []Task) Report {
	mostCommon, _ := aggregate.Mode(tasks, taskType)
	return Report{
		TotalTasks:     len(tasks),
		TotalHours:     aggregate.Sum(tasks, hours),
		AverageHours:   aggregate.Mean(tasks, hours),
		ByComplexity:   aggregate.GroupMean(tasks, func(t Task) string { return t.Complexity }, hours),
		ByType:         aggregate.GroupMean(tasks, taskType, hours),
		TimeByType:     aggregate.GroupSum(tasks, taskType, hours),
		MostCommonType: mostCommon,
	}
}

func hours(t Task) float64   { return t.EstimatedTime }
func taskType(t Task) string { return t.Type }
