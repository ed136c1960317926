package health

import (
	"errors"
	"fmt"
)

const (
	mlPerKg            = 30
	pregnancyExtraMl   = 300
	altitudeFactor     = 1.15
	caffeineExtraMl    = 200
	glassMl            = 250
	wakingHours        = 16
	firstWakingHour    = 6
	morningHours       = 4
	eveningHours       = 3
	morningFactor      = 1.2
	eveningFactor      = 0.8
	heavyCaffeineCups  = 3
	glassesPerTwoHours = 8
)

var exerciseMultipliers = []multiplier{
	{"Sedentary", 1.0},
	{"Light Exercise", 1.2},
	{"Moderate Exercise", 1.4},
	{"Heavy Exercise", 1.6},
	{"Athlete", 1.8},
}

var climateMultipliers = []multiplier{
	{"Cold", 0.9},
	{"Moderate", 1.0},
	{"Hot", 1.2},
	{"Very Hot", 1.4},
}

// ExerciseLevels and Climates list the accepted hydration labels.
var (
	ExerciseLevels = labelsOf(exerciseMultipliers)
	Climates       = labelsOf(climateMultipliers)
)

// HydrationInput describes the factors that drive water needs.
type HydrationInput struct {
	WeightKg     float64 `json:"weight"`
	Activity     string  `json:"activity_level"`
	Climate      string  `json:"climate"`
	Pregnant     bool    `json:"pregnant"`
	HighAltitude bool    `json:"high_altitude"`
	CaffeineCups int     `json:"caffeine_cups"`
}

// HourlyIntake is the recommended intake for one waking hour.
type HourlyIntake struct {
	Hour int     `json:"hour"`
	Ml   float64 `json:"ml"`
}

// HydrationResult is the daily water target.
type HydrationResult struct {
	Ml       float64        `json:"ml"`
	Liters   float64        `json:"liters"`
	Schedule []HourlyIntake `json:"schedule"`
	Tips     []string       `json:"tips"`
}

// CalculateHydration returns 30 ml/kg scaled by activity and climate, with
// 300 ml more when pregnant, 15% more at altitude and 200 ml per cup of
// caffeine.
func CalculateHydration(in HydrationInput) (HydrationResult, error) {
	if in.WeightKg <= 0 {
		return HydrationResult{}, errors.New("weight must be positive")
	}
	if in.CaffeineCups < 0 {
		return HydrationResult{}, errors.New("caffeine cups must not be negative")
	}
	activity, err := lookup(exerciseMultipliers, "activity level", in.Activity)
	if err != nil {
		return HydrationResult{}, err
	}
	climate, err := lookup(climateMultipliers, "climate", in.Climate)
	if err != nil {
		return HydrationResult{}, err
	}

	ml := in.WeightKg * mlPerKg * activity * climate
	if in.Pregnant {
		ml += pregnancyExtraMl
	}
	if in.HighAltitude {
		ml *= altitudeFactor
	}
	ml += float64(in.CaffeineCups) * caffeineExtraMl

	return HydrationResult{
		Ml:       ml,
		Liters:   ml / 1000,
		Schedule: HydrationSchedule(ml),
		Tips:     hydrationTips(in, ml/1000),
	}, nil
}

// HydrationSchedule spreads a daily intake over the 16 waking hours from
// 06:00, front-loading the first four hours and easing off in the last three.
// The hourly amounts need not add up to the daily intake.
func HydrationSchedule(dailyMl float64) []HourlyIntake {
	hourly := dailyMl / wakingHours
	schedule := make([]HourlyIntake, 0, wakingHours)
	for i := 0; i < wakingHours; i++ {
		ml := hourly
		switch {
		case i < morningHours:
			ml *= morningFactor
		case i >= wakingHours-eveningHours:
			ml *= eveningFactor
		}
		schedule = append(schedule, HourlyIntake{Hour: firstWakingHour + i, Ml: ml})
	}
	return schedule
}

func hydrationTips(in HydrationInput, liters float64) []string {
	tips := []string{
		"Start your day with a glass of water",
		"Keep a water bottle with you throughout the day",
		"Set reminders to drink water every hour",
		"Drink water before, during, and after exercise",
		fmt.Sprintf("Aim to drink %.1f glasses (250ml) every 2 hours while awake", liters/glassesPerTwoHours),
	}
	if in.Climate == "Hot" || in.Climate == "Very Hot" {
		tips = append(tips, "Increase intake during hot weather")
	}
	if in.Activity == "Heavy Exercise" || in.Activity == "Athlete" {
		tips = append(tips, "Consider electrolyte replacement during intense exercise")
	}
	if in.CaffeineCups > heavyCaffeineCups {
		tips = append(tips, "Consider reducing caffeine intake or increasing water to compensate")
	}
	return tips
}

// Progress is how far a day's drinking has come toward the target.
type Progress struct {
	Fraction        float64 `json:"fraction"`
	RemainingLiters float64 `json:"remaining_liters"`
	Message         string  `json:"message"`
}

// HydrationProgress reports progress after drinking glasses of 250 ml
// against a daily target in ml. Fraction is capped at 1.
func HydrationProgress(glasses int, dailyMl float64) (Progress, error) {
	if glasses < 0 || dailyMl <= 0 {
		return Progress{}, errors.New("glasses must not be negative and the target must be positive")
	}
	fraction := float64(glasses*glassMl) / dailyMl
	remaining := dailyMl/1000 - float64(glasses*glassMl)/1000

	p := Progress{Fraction: fraction, RemainingLiters: remaining}
	switch {
	case fraction < 0.5:
		p.Message = fmt.Sprintf("You need to drink %.1f more liters today", remaining)
	case fraction < 1:
		p.Message = fmt.Sprintf("Almost there! %.1f more liters to go", remaining)
	default:
		p.Message = "You've met your hydration goal for today!"
		p.RemainingLiters = 0
	}
	if p.Fraction > 1 {
		p.Fraction = 1
	}
	return p, nil
}
