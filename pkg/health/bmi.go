// Package health provides body mass, calorie and hydration calculators.
package health

import (
	"errors"
	"fmt"
)

// Genders accepted by the calculators.
const (
	Male   = "Male"
	Female = "Female"
)

// ErrUnknownOption is returned for a gender, activity, goal or climate label
// outside the accepted set.
var ErrUnknownOption = errors.New("unknown option")

// BMI categories.
const (
	Underweight  = "Underweight"
	NormalWeight = "Normal weight"
	Overweight   = "Overweight"
	Obese        = "Obese"
)

// hamwiBaseHeight is five feet in centimetres.
const hamwiBaseHeight = 152.4

// BMIResult is the body mass index with its category and ideal weight.
type BMIResult struct {
	BMI         float64 `json:"bmi"`
	Category    string  `json:"category"`
	IdealWeight float64 `json:"ideal_weight"`
	IdealMin    float64 `json:"ideal_min"`
	IdealMax    float64 `json:"ideal_max"`
}

// BMI returns weight(kg) / height(m)^2.
func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMICategory classifies a BMI at the 18.5, 25 and 30 thresholds.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return NormalWeight
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}

// IdealWeight returns the Hamwi ideal weight in kg.
func IdealWeight(heightCm float64, gender string) (float64, error) {
	inchesOverFiveFeet := (heightCm - hamwiBaseHeight) / 2.54
	switch gender {
	case Male:
		return 48 + 2.7*inchesOverFiveFeet, nil
	case Female:
		return 45.5 + 2.2*inchesOverFiveFeet, nil
	default:
		return 0, fmt.Errorf("%w: gender %q", ErrUnknownOption, gender)
	}
}

// CalculateBMI computes the BMI, its category and a ±10% ideal weight range.
func CalculateBMI(weightKg, heightCm float64, gender string) (BMIResult, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return BMIResult{}, errors.New("weight and height must be positive")
	}
	ideal, err := IdealWeight(heightCm, gender)
	if err != nil {
		return BMIResult{}, err
	}
	bmi := BMI(weightKg, heightCm)
	return BMIResult{
		BMI:         bmi,
		Category:    BMICategory(bmi),
		IdealWeight: ideal,
		IdealMin:    ideal * 0.9,
		IdealMax:    ideal * 1.1,
	}, nil
}
