package aggregate

import (
	"sort"

	"github.com/iwvelando/calcdash/pkg/datetime"
)

// Granularity selects the bucket width of a Trend.
type Granularity int

const (
	// Day buckets by YYYY-MM-DD.
	Day Granularity = iota
	// Month buckets by YYYY-MM.
	Month
)

// Point is one bucket of a Trend.
type Point struct {
	Bucket string  `json:"bucket"`
	Value  float64 `json:"value"`
}

// Trend sums value(r) per date bucket and returns the buckets in time order.
// date(r) must be a YYYY-MM-DD date. With fillGaps every bucket between the
// first and last one is present, empty buckets holding 0.
func Trend[T any](records []T, date func(T) string, value func(T) float64, g Granularity, fillGaps bool) ([]Point, error) {
	sums := make(map[string]float64)
	for _, r := range records {
		bucket, err := bucketOf(date(r), g)
		if err != nil {
			return nil, err
		}
		sums[bucket] += value(r)
	}

	buckets := make([]string, 0, len(sums))
	for b := range sums {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)

	if fillGaps && len(buckets) > 1 {
		filled := make([]string, 0, len(buckets))
		last := buckets[len(buckets)-1]
		for b := buckets[0]; b <= last; {
			filled = append(filled, b)
			next, err := nextBucket(b, g)
			if err != nil {
				return nil, err
			}
			b = next
		}
		buckets = filled
	}

	points := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, Point{Bucket: b, Value: sums[b]})
	}
	return points, nil
}

// PointValues returns the values of points, in order.
func PointValues(points []Point) []float64 {
	return Values(points, func(p Point) float64 { return p.Value })
}

func bucketOf(date string, g Granularity) (string, error) {
	if g == Month {
		return datetime.MonthOf(date)
	}
	day, err := datetime.ParseDay(date)
	if err != nil {
		return "", err
	}
	return datetime.FormatDay(day), nil
}

func nextBucket(bucket string, g Granularity) (string, error) {
	if g == Month {
		return datetime.OffsetMonth(bucket, 1)
	}
	return datetime.OffsetDays(bucket, 1)
}
