package health

import (
	"errors"
	"fmt"
)

// Calorie goals.
const (
	GoalMaintain = "Maintain Weight"
	GoalLose     = "Lose Weight"
	GoalGain     = "Gain Weight"
)

// goalAdjustment is the daily surplus or deficit of a gain or lose goal.
const goalAdjustment = 500

// Energy per gram of each macronutrient.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
	proteinPerKg       = 2.2
	fatShare           = 0.25
)

type multiplier struct {
	label string
	value float64
}

var activityMultipliers = []multiplier{
	{"Sedentary", 1.2},
	{"Lightly Active", 1.375},
	{"Moderately Active", 1.55},
	{"Very Active", 1.725},
	{"Extra Active", 1.9},
}

// ActivityLevels lists the accepted calorie activity labels, least active first.
var ActivityLevels = labelsOf(activityMultipliers)

func labelsOf(table []multiplier) []string {
	out := make([]string, 0, len(table))
	for _, m := range table {
		out = append(out, m.label)
	}
	return out
}

func lookup(table []multiplier, kind, label string) (float64, error) {
	for _, m := range table {
		if m.label == label {
			return m.value, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownOption, kind, label)
}

// Macro is the daily amount of one macronutrient.
type Macro struct {
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
}

// CalorieInput describes a person and their goal.
type CalorieInput struct {
	WeightKg float64 `json:"weight"`
	HeightCm float64 `json:"height"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	Activity string  `json:"activity_level"`
	Goal     string  `json:"goal"`
}

// CalorieResult is the daily calorie target and its macronutrient split.
type CalorieResult struct {
	BMR      float64 `json:"bmr"`
	TDEE     float64 `json:"tdee"`
	Calories float64 `json:"calories"`
	Macros   []Macro `json:"macros"`
}

// BMR returns the Mifflin-St Jeor basal metabolic rate in kcal.
func BMR(weightKg, heightCm float64, age int, gender string) (float64, error) {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case Male:
		return base + 5, nil
	case Female:
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: gender %q", ErrUnknownOption, gender)
	}
}

// CalculateCalories computes the daily calorie target: the activity-scaled
// BMR, 500 kcal lower to lose or higher to gain. Protein is 2.2 g/kg, fat
// 25% of calories and carbohydrates the remainder.
func CalculateCalories(in CalorieInput) (CalorieResult, error) {
	if in.WeightKg <= 0 || in.HeightCm <= 0 || in.Age <= 0 {
		return CalorieResult{}, errors.New("weight, height and age must be positive")
	}
	bmr, err := BMR(in.WeightKg, in.HeightCm, in.Age, in.Gender)
	if err != nil {
		return CalorieResult{}, err
	}
	mult, err := lookup(activityMultipliers, "activity level", in.Activity)
	if err != nil {
		return CalorieResult{}, err
	}

	tdee := bmr * mult
	calories := tdee
	switch in.Goal {
	case GoalLose:
		calories -= goalAdjustment
	case GoalGain:
		calories += goalAdjustment
	case GoalMaintain:
	default:
		return CalorieResult{}, fmt.Errorf("%w: goal %q", ErrUnknownOption, in.Goal)
	}

	protein := in.WeightKg * proteinPerKg
	fat := calories * fatShare / kcalPerGramFat
	carbs := (calories - protein*kcalPerGramProtein - fat*kcalPerGramFat) / kcalPerGramCarbs
	return CalorieResult{
		BMR:      bmr,
		TDEE:     tdee,
		Calories: calories,
		Macros: []Macro{
			{Name: "Protein", Grams: protein, Calories: protein * kcalPerGramProtein},
			{Name: "Carbs", Grams: carbs, Calories: carbs * kcalPerGramCarbs},
			{Name: "Fat", Grams: fat, Calories: fat * kcalPerGramFat},
		},
	}, nil
}
