// Package aggregate computes derived views over record snapshots. Every
// function is pure and returns zero or empty results for an empty snapshot.
package aggregate

import (
	"sort"

	"github.com/iwvelando/calcdash/pkg/mathutil"
)

// Group is one bucket of a group-by.
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Sum adds value(r) over all records.
func Sum[T any](records []T, value func(T) float64) float64 {
	total := 0.0
	for _, r := range records {
		total += value(r)
	}
	return total
}

// Mean averages value(r) over all records.
func Mean[T any](records []T, value func(T) float64) float64 {
	return mathutil.Mean(Values(records, value))
}

// Values projects value(r) for every record, in order.
func Values[T any](records []T, value func(T) float64) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		out = append(out, value(r))
	}
	return out
}

// GroupSum sums value(r) per key(r). Groups are ordered by key.
func GroupSum[T any](records []T, key func(T) string, value func(T) float64) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Value += value(r)
		groups[i].Count++
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// GroupMean averages value(r) per key(r). Groups are ordered by key.
func GroupMean[T any](records []T, key func(T) string, value func(T) float64) []Group {
	groups := GroupSum(records, key, value)
	for i := range groups {
		groups[i].Value /= float64(groups[i].Count)
	}
	return groups
}

// GroupCount counts records per key(r), most frequent first. Equal counts keep
// the order in which the keys first appeared.
func GroupCount[T any](records []T, key func(T) string) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Count++
		groups[i].Value++
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	return groups
}

// Lookup returns the value of the group with the given key, or 0.
func Lookup(groups []Group, key string) float64 {
	for _, g := range groups {
		if g.Key == key {
			return g.Value
		}
	}
	return 0
}

// MaxGroup returns the group with the largest value. Ties resolve to the
// earliest group.
func MaxGroup(groups []Group) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Value > best.Value {
			best = g
		}
	}
	return best, true
}

// TopN returns up to n records with the largest value(r), largest first. Ties
// keep insertion order.
func TopN[T any](records []T, n int, value func(T) float64) []T {
	if n <= 0 || len(records) == 0 {
		return []T{}
	}
	sorted := append([]T(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return value(sorted[i]) > value(sorted[j]) })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TopGroups returns up to n groups with the largest values, largest first.
func TopGroups(groups []Group, n int) []Group {
	return TopN(groups, n, func(g Group) float64 { return g.Value })
}

// Mode returns the most frequent key. Ties resolve to the lexically smallest
// key. The second result is false for an empty snapshot.
func Mode[T any](records []T, key func(T) string) (string, bool) {
	counts := GroupCount(records, key)
	if len(counts) == 0 {
		return "", false
	}
	best := counts[0]
	for _, g := range counts[1:] {
		if g.Count < best.Count {
			break
		}
		if g.Key < best.Key {
			best = g
		}
	}
	return best.Key, true
}
