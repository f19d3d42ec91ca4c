/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fftime

import (
	"fmt"
	"sort"
	"time"

	"github.com/facebook/flatfile/leaptable"
)

// LeapRange names a contiguous run of indices, within a TicksToDates result,
// that represent the exact leap-second instant (the repeated ":59 -> :60"
// moment). Start and End are both inclusive.
type LeapRange struct {
	Start int
	End   int
}

// Converter performs tick/date conversions for a fixed leap second table.
// The table is injected rather than read from a global, so callers (and
// tests) can substitute fixtures. Construct one with NewConverter and reuse
// it; Converter holds no mutable state of its own.
type Converter struct {
	table *leaptable.Table
}

// NewConverter builds a Converter around table. A nil table is treated as
// an empty one: leap-aware epochs then behave as if no leap second has ever
// been announced.
func NewConverter(table *leaptable.Table) *Converter {
	return &Converter{table: table}
}

// DatesToTicks maps an ascending sequence of UTC-naive dates to ticks
// relative to epoch. Timezone info, if present, is stripped before
// conversion. Non-monotonic input is undefined behavior: no runtime check
// is performed.
func (c *Converter) DatesToTicks(dates []time.Time, epoch Epoch) ([]float64, error) {
	if !ValidEpoch(epoch) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEpoch, epoch)
	}
	if len(dates) == 0 {
		return []float64{}, nil
	}

	epochDT := epochRef[epoch]
	ticks := make([]float64, len(dates))

	if !LeapAware(epoch) {
		for i, d := range dates {
			ticks[i] = stripTZ(d).Sub(epochDT).Seconds()
		}
		return ticks, nil
	}

	entries := c.table.Entries()
	baseLeap := ceilLeapSecondsAt(entries, epochDT)
	for i, d := range dates {
		nd := stripTZ(d)
		refLeap := ceilLeapSecondsAt(entries, nd)
		ticks[i] = nd.Sub(epochDT).Seconds() + (refLeap - baseLeap)
	}
	return ticks, nil
}

// ceilLeapSecondsAt mirrors original_source/fflib/ff_time.py's date_to_tick:
// the cumulative leap value at the leftmost table entry whose date is not
// before query (bisect_left, a ceiling lookup), not leaptable.Table's own
// floor-based LeapSecondsAt. date_to_tick uses this ceiling lookup for
// both the epoch's base leap offset and a date's own reference leap
// offset, so the two agree within a segment and cancel out, and diverge by
// exactly one table entry's value across a leap boundary.
func ceilLeapSecondsAt(entries []leaptable.Entry, query time.Time) float64 {
	if len(entries) == 0 || entries[0].Date.After(query) {
		return 0
	}
	idx := sort.Search(len(entries), func(i int) bool { return !entries[i].Date.Before(query) })
	if idx >= len(entries) {
		idx = len(entries) - 1
	}
	return entries[idx].CumulativeLeap
}

// DateToTick is the scalar form of DatesToTicks.
func (c *Converter) DateToTick(date time.Time, epoch Epoch) (float64, error) {
	ticks, err := c.DatesToTicks([]time.Time{date}, epoch)
	if err != nil {
		return 0, err
	}
	return ticks[0], nil
}

// leapBoundaryTicks returns, in table order, each leap boundary's date, its
// tick position under epoch (computed the same way DatesToTicks would), and
// its raw (unreduced) cumulative leap value.
func (c *Converter) leapBoundaryTicks(epoch Epoch) (dates []time.Time, ticks []float64, values []float64, err error) {
	entries := c.table.Entries()
	dates = make([]time.Time, len(entries))
	values = make([]float64, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
		values[i] = e.CumulativeLeap
	}
	ticks, err = c.DatesToTicks(dates, epoch)
	return dates, ticks, values, err
}

// TicksToDates maps an ascending sequence of ticks relative to epoch back
// to UTC-naive datetimes, reporting which result indices sit exactly on a
// leap-second instant. ticks must be ascending; behavior is undefined
// otherwise.
func (c *Converter) TicksToDates(ticks []float64, epoch Epoch) ([]time.Time, []LeapRange, error) {
	if !ValidEpoch(epoch) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownEpoch, epoch)
	}
	if len(ticks) == 0 {
		return []time.Time{}, nil, nil
	}

	epochDT := epochRef[epoch]
	dateVals := make([]time.Time, len(ticks))
	for i, t := range ticks {
		dateVals[i] = epochDT.Add(durationFromSeconds(t))
	}

	if !LeapAware(epoch) {
		return dateVals, nil, nil
	}

	_, leapTicks, leapValues, err := c.leapBoundaryTicks(epoch)
	if err != nil {
		return nil, nil, err
	}
	reduce := epochDT.After(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC))
	if reduce {
		for i := range leapValues {
			leapValues[i] -= tableDelta
		}
	}

	t0, t1 := ticks[0], ticks[len(ticks)-1]

	type segment struct {
		idx     int
		leapVal float64
	}
	var segs []segment
	baseLeapOffset := 0.0
	trueLeaps := map[int]bool{}

	for i, leap := range leapTicks {
		switch {
		case leap >= t0 && leap <= t1:
			idx := bisectLeftFloat(ticks, leap)
			segs = append(segs, segment{idx: idx, leapVal: leapValues[i]})
			switch {
			case idx < len(ticks) && ticks[idx] == leap:
				trueLeaps[idx] = true
			case idx > 0 && ticks[idx-1] == leap:
				trueLeaps[idx-1] = true
			}
		case leap <= t0:
			baseLeapOffset = leapValues[i]
		}
	}

	bases := []float64{baseLeapOffset}
	pairs := []int{0}
	for _, s := range segs {
		bases = append(bases, s.leapVal)
		pairs = append(pairs, s.idx)
	}
	pairs = append(pairs, len(ticks))

	for z := 0; z < len(bases); z++ {
		base := bases[z]
		sI, eI := pairs[z], pairs[z+1]
		for k := sI; k < eI; k++ {
			dateVals[k] = dateVals[k].Add(-durationFromSeconds(base))
		}
	}

	return dateVals, leapRangesFromIndices(trueLeaps), nil
}

// TickToDate is the scalar form of TicksToDates. The returned bool reports
// whether tick lands exactly on a leap-second instant.
func (c *Converter) TickToDate(tick float64, epoch Epoch) (time.Time, bool, error) {
	dates, ranges, err := c.TicksToDates([]float64{tick}, epoch)
	if err != nil {
		return time.Time{}, false, err
	}
	return dates[0], len(ranges) > 0, nil
}

func bisectLeftFloat(sorted []float64, target float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] >= target })
}

func leapRangesFromIndices(set map[int]bool) []LeapRange {
	if len(set) == 0 {
		return nil
	}
	idxs := make([]int, 0, len(set))
	for i := range set {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	var ranges []LeapRange
	start := idxs[0]
	prev := idxs[0]
	for _, i := range idxs[1:] {
		if i == prev+1 {
			prev = i
			continue
		}
		ranges = append(ranges, LeapRange{Start: start, End: prev})
		start, prev = i, i
	}
	ranges = append(ranges, LeapRange{Start: start, End: prev})
	return ranges
}

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
