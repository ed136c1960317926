package aggregate

// Threshold picks one of two fixed messages by comparing a value to Limit.
type Threshold struct {
	Limit float64
	Above string
	Below string
}

// Exceeded reports whether value is strictly above the limit.
func (t Threshold) Exceeded(value float64) bool {
	return value > t.Limit
}

// Message returns Above when value exceeds the limit and Below otherwise.
func (t Threshold) Message(value float64) string {
	if t.Exceeded(value) {
		return t.Above
	}
	return t.Below
}
