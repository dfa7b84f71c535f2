// Package stats folds draw events into rarity, pool, streak and monthly
// statistics, either across every pool or scoped to a single pool.
package stats

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/okian/gachastat/internal/domain/model"
)

// Valid timestamp range: instants whose UTC year lies in [1, 9999].
var (
	minTimestamp = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTimestamp = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// Scope tells which output shape a Statistics value holds.
type Scope int

const (
	ScopeTotal Scope = iota
	ScopePool
)

func (s Scope) String() string {
	if s == ScopePool {
		return "pool"
	}
	return "total"
}

// TotalStatistics aggregates every pool. PoolsCount and WaterPlace run
// parallel to AllPools.
type TotalStatistics struct {
	Total           int                        `json:"total"`
	StarsCount      [model.RarityTiers]int     `json:"starsCount"`
	StarsPercentage [model.RarityTiers]float64 `json:"starsPercentage"`
	AllPools        []string                   `json:"allPools"`
	PoolsCount      []int                      `json:"poolsCount"`
	WaterPlace      []int                      `json:"waterPlace"`
	MonthsCount     []int                      `json:"monthsCount"`
	AllMonths       []string                   `json:"allMonths"`
}

// PoolStatistics aggregates a single pool. AllPools still lists every pool
// seen in the unfiltered input.
type PoolStatistics struct {
	AllPools        []string                   `json:"allPools"`
	PoolName        string                     `json:"poolName"`
	Total           int                        `json:"total"`
	StarsCount      [model.RarityTiers]int     `json:"starsCount"`
	StarsPercentage [model.RarityTiers]float64 `json:"starsPercentage"`
	WaterPlace      int                        `json:"waterPlace"`
	MonthsCount     []int                      `json:"monthsCount"`
	AllMonths       []string                   `json:"allMonths"`
}

// Statistics is a tagged union of the two output shapes. Exactly one of
// Total and Pool is set, matching Scope.
type Statistics struct {
	Scope Scope
	Total *TotalStatistics
	Pool  *PoolStatistics
}

// MarshalJSON emits the inner shape without the tag.
func (s Statistics) MarshalJSON() ([]byte, error) {
	switch s.Scope {
	case ScopePool:
		return json.Marshal(s.Pool)
	default:
		return json.Marshal(s.Total)
	}
}

// poolState tracks one pool's running counters.
type poolState struct {
	count      int
	waterPlace int
}

// Aggregator is a single-pass fold over draw events. Events must be fed in
// ascending timestamp order; Compute takes care of that.
type Aggregator struct {
	filter    *string
	padMonths bool

	starsCount [model.RarityTiers]int
	allPools   []string
	seenPools  map[string]struct{}
	pools      []string
	poolStates map[string]*poolState
	months     []string
	monthIndex map[string]int
	monthCount []int
}

// NewAggregator creates an aggregator. A nil pool means total scope.
func NewAggregator(pool *string, opts ...Option) *Aggregator {
	a := &Aggregator{
		seenPools:  make(map[string]struct{}),
		poolStates: make(map[string]*poolState),
		monthIndex: make(map[string]int),
	}
	if pool != nil {
		p := *pool
		a.filter = &p
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Observe folds one event. The first error leaves the aggregator unusable.
func (a *Aggregator) Observe(e model.DrawEvent) error {
	if _, ok := a.seenPools[e.Pool]; !ok {
		a.seenPools[e.Pool] = struct{}{}
		a.allPools = append(a.allPools, e.Pool)
	}

	if a.filter != nil && e.Pool != *a.filter {
		return nil
	}

	rarity := e.Character.Rarity
	if rarity < model.MinRarity || rarity > model.MaxRarity {
		return fmt.Errorf("%w: %d at timestamp %d", ErrInvalidRarity, rarity, e.Timestamp)
	}
	if e.Timestamp < minTimestamp || e.Timestamp > maxTimestamp {
		return &TimestampParseError{Value: e.Timestamp}
	}

	a.starsCount[rarity-model.MinRarity]++

	ps, ok := a.poolStates[e.Pool]
	if !ok {
		ps = &poolState{}
		a.poolStates[e.Pool] = ps
		a.pools = append(a.pools, e.Pool)
	}
	ps.count++
	if e.Character.IsRare() {
		ps.waterPlace = 0
	} else {
		ps.waterPlace++
	}

	key := a.monthKey(time.Unix(e.Timestamp, 0).UTC())
	idx, ok := a.monthIndex[key]
	if !ok {
		idx = len(a.months)
		a.monthIndex[key] = idx
		a.months = append(a.months, key)
		a.monthCount = append(a.monthCount, 0)
	}
	a.monthCount[idx]++
	return nil
}

func (a *Aggregator) monthKey(t time.Time) string {
	if a.padMonths {
		return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
	}
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// WaterPlace returns the current draws-since-last-rare counter for pool.
func (a *Aggregator) WaterPlace(pool string) int {
	if ps, ok := a.poolStates[pool]; ok {
		return ps.waterPlace
	}
	return 0
}

// Result projects the accumulated state into the scope's output shape.
// With no matching draws every percentage is 0.
func (a *Aggregator) Result() Statistics {
	total := 0
	for _, c := range a.starsCount {
		total += c
	}
	var pct [model.RarityTiers]float64
	if total > 0 {
		for i, c := range a.starsCount {
			pct[i] = float64(c) / float64(total) * 100
		}
	}

	allPools := nonNil(slices.Clone(a.allPools))
	months := nonNil(slices.Clone(a.months))
	monthCount := nonNil(slices.Clone(a.monthCount))

	if a.filter != nil {
		return Statistics{
			Scope: ScopePool,
			Pool: &PoolStatistics{
				AllPools:        allPools,
				PoolName:        *a.filter,
				Total:           total,
				StarsCount:      a.starsCount,
				StarsPercentage: pct,
				WaterPlace:      a.WaterPlace(*a.filter),
				MonthsCount:     monthCount,
				AllMonths:       months,
			},
		}
	}

	poolsCount := make([]int, len(a.pools))
	waterPlace := make([]int, len(a.pools))
	for i, p := range a.pools {
		poolsCount[i] = a.poolStates[p].count
		waterPlace[i] = a.poolStates[p].waterPlace
	}
	return Statistics{
		Scope: ScopeTotal,
		Total: &TotalStatistics{
			Total:           total,
			StarsCount:      a.starsCount,
			StarsPercentage: pct,
			AllPools:        nonNil(slices.Clone(a.pools)),
			PoolsCount:      poolsCount,
			WaterPlace:      waterPlace,
			MonthsCount:     monthCount,
			AllMonths:       months,
		},
	}
}

// Compute sorts a copy of events ascending by timestamp and folds it.
// The sort is stable so draws of one batch keep their pull order.
func Compute(events []model.DrawEvent, pool *string, opts ...Option) (Statistics, error) {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(x, y model.DrawEvent) int {
		switch {
		case x.Timestamp < y.Timestamp:
			return -1
		case x.Timestamp > y.Timestamp:
			return 1
		default:
			return 0
		}
	})

	agg := NewAggregator(pool, opts...)
	for _, e := range sorted {
		if err := agg.Observe(e); err != nil {
			return Statistics{}, err
		}
	}
	return agg.Result(), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
