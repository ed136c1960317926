// Package task estimates the time a task takes from its complexity, type and
// the experience of whoever works on it, and keeps a history of estimates.
package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/calcdash/pkg/datetime"
)

// factor is one row of an estimate table.
type factor struct {
	label string
	value float64
}

// Base hours per complexity level.
var complexityHours = []factor{
	{"Low", 1},
	{"Medium", 3},
	{"High", 8},
	{"Very High", 16},
}

var typeMultipliers = []factor{
	{"Development", 1.0},
	{"Design", 0.8},
	{"Documentation", 0.6},
	{"Testing", 0.7},
	{"Research", 1.2},
	{"Planning", 0.5},
}

var experienceMultipliers = []factor{
	{"Beginner", 1.5},
	{"Intermediate", 1.0},
	{"Expert", 0.7},
}

// spread is the relative width of the optimistic and conservative estimates.
const spread = 0.2

// ErrUnknownLabel is returned for a complexity, type or experience label
// outside the estimate tables.
var ErrUnknownLabel = errors.New("unknown estimate label")

// Complexities, Types and ExperienceLevels list the accepted labels.
var (
	Complexities     = labels(complexityHours)
	Types            = labels(typeMultipliers)
	ExperienceLevels = labels(experienceMultipliers)
)

func labels(table []factor) []string {
	out := make([]string, 0, len(table))
	for _, f := range table {
		out = append(out, f.label)
	}
	return out
}

func lookup(table []factor, kind, label string) (float64, error) {
	for _, f := range table {
		if f.label == label {
			return f.value, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownLabel, kind, label)
}

// Estimate is a time estimate in hours.
type Estimate struct {
	Min      float64 `json:"min_time"`
	Expected float64 `json:"estimated_time"`
	Max      float64 `json:"max_time"`
}

// EstimateTime returns the expected hours with a ±20% range.
func EstimateTime(complexity, taskType, experience string) (Estimate, error) {
	base, err := lookup(complexityHours, "complexity", complexity)
	if err != nil {
		return Estimate{}, err
	}
	typeMult, err := lookup(typeMultipliers, "type", taskType)
	if err != nil {
		return Estimate{}, err
	}
	expMult, err := lookup(experienceMultipliers, "experience level", experience)
	if err != nil {
		return Estimate{}, err
	}

	expected := base * typeMult * expMult
	return Estimate{
		Min:      expected * (1 - spread),
		Expected: expected,
		Max:      expected * (1 + spread),
	}, nil
}

// Task is one saved estimate of the tasks_history log.
type Task struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Complexity      string  `json:"complexity"`
	Type            string  `json:"type"`
	ExperienceLevel string  `json:"experience_level"`
	EstimatedTime   float64 `json:"estimated_time"`
	MinTime         float64 `json:"min_time"`
	MaxTime         float64 `json:"max_time"`
	Date            string  `json:"date"`
}

// NewTask estimates a task and stamps it with the given day.
func NewTask(name, description, complexity, taskType, experience string, now time.Time) (Task, error) {
	est, err := EstimateTime(complexity, taskType, experience)
	if err != nil {
		return Task{}, err
	}
	return Task{
		Name:            name,
		Description:     description,
		Complexity:      complexity,
		Type:            taskType,
		ExperienceLevel: experience,
		EstimatedTime:   est.Expected,
		MinTime:         est.Min,
		MaxTime:         est.Max,
		Date:            datetime.FormatDay(now),
	}, nil
}

// Validate checks the labels, the date and the estimate range.
func (t Task) Validate() error {
	if _, err := lookup(complexityHours, "complexity", t.Complexity); err != nil {
		return err
	}
	if _, err := lookup(typeMultipliers, "type", t.Type); err != nil {
		return err
	}
	if _, err := lookup(experienceMultipliers, "experience level", t.ExperienceLevel); err != nil {
		return err
	}
	if t.EstimatedTime <= 0 || t.MinTime > t.EstimatedTime || t.EstimatedTime > t.MaxTime {
		return fmt.Errorf("task %q: inconsistent estimate %v <= %v <= %v", t.Name, t.MinTime, t.EstimatedTime, t.MaxTime)
	}
	if _, err := datetime.ParseDay(t.Date); err != nil {
		return fmt.Errorf("task %q: %w", t.Name, err)
	}
	return nil
}
