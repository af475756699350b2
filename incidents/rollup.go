package incidents

import (
	"sort"
	"time"
)

// Count is one bar of a chart.
type Count[K comparable] struct {
	Key   K
	Count int
}

// CountByType tallies incidents per type, highest count first, ties by type name.
func CountByType(list []Incident) []Count[Type] {
	return tally(list, func(i Incident) Type { return i.Type }, func(a, b Type) bool { return a < b })
}

// CountByStatus tallies incidents per status in workflow order.
func CountByStatus(list []Incident) []Count[Status] {
	order := make(map[Status]int, len(Statuses))
	for i, s := range Statuses {
		order[s] = i
	}
	counts := map[Status]int{}
	for _, i := range list {
		counts[i.Status]++
	}
	out := make([]Count[Status], 0, len(counts))
	for k, v := range counts {
		out = append(out, Count[Status]{Key: k, Count: v})
	}
	sort.Slice(out, func(a, b int) bool {
		oa, okA := order[out[a].Key]
		ob, okB := order[out[b].Key]
		if okA != okB {
			return okA
		}
		if oa != ob {
			return oa < ob
		}
		return out[a].Key < out[b].Key
	})
	return out
}

// DayCount is the number of incidents reported on one calendar day.
type DayCount struct {
	Day   time.Time // midnight in the location passed to GroupByDay
	Count int
}

// GroupByDay buckets incidents by the calendar day of CreatedAt in loc, oldest day first.
// Days without incidents are not included.
func GroupByDay(list []Incident, loc *time.Location) []DayCount {
	if loc == nil {
		loc = time.UTC
	}
	counts := map[time.Time]int{}
	for _, i := range list {
		t := i.CreatedAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		counts[day]++
	}
	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Day.Before(out[b].Day) })
	return out
}

// SortNewestFirst returns a copy of list ordered by CreatedAt descending, ties broken by ID.
func SortNewestFirst(list []Incident) []Incident {
	out := append([]Incident(nil), list...)
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// Recent returns at most n of the newest incidents.
func Recent(list []Incident, n int) []Incident {
	sorted := SortNewestFirst(list)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Open filters out resolved and dismissed incidents.
func Open(list []Incident) []Incident {
	out := make([]Incident, 0, len(list))
	for _, i := range list {
		if !i.Status.Closed() {
			out = append(out, i)
		}
	}
	return out
}

func tally[K comparable](list []Incident, key func(Incident) K, less func(a, b K) bool) []Count[K] {
	counts := map[K]int{}
	for _, i := range list {
		counts[key(i)]++
	}
	out := make([]Count[K], 0, len(counts))
	for k, v := range counts {
		out = append(out, Count[K]{Key: k, Count: v})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return less(out[a].Key, out[b].Key)
	})
	return out
}
