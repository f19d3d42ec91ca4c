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
	"time"
)

// ffTimestampLayout is the flat file's native CDATE/FIRST TIME/LAST TIME
// format: "YYYY DDD Mon DD HH:MM:SS.ssssss".
const ffTimestampLayout = "2006 002 Jan 02 15:04:05.000000"

// TicksToISO converts ticks relative to epoch into
// "YYYY-MM-DDTHH:MM:SS.sss" strings, millisecond precision. Indices flagged
// as an exact leap-second instant render "60" in the seconds field instead
// of "59".
func (c *Converter) TicksToISO(ticks []float64, epoch Epoch) ([]string, error) {
	dates, ranges, err := c.TicksToDates(ticks, epoch)
	if err != nil {
		return nil, err
	}
	leapSet := indexSetFromRanges(ranges)

	out := make([]string, len(dates))
	for i, d := range dates {
		sec := fmt.Sprintf("%02d", d.Second())
		if leapSet[i] {
			sec = "60"
		}
		out[i] = fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%s.%03d",
			d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute(), sec, d.Nanosecond()/1e6)
	}
	return out, nil
}

// TickToISO is the scalar form of TicksToISO.
func (c *Converter) TickToISO(tick float64, epoch Epoch) (string, error) {
	out, err := c.TicksToISO([]float64{tick}, epoch)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// TicksToTimestamps converts ticks relative to epoch into
// "YYYY DDD Mon DD HH:MM:SS.ssssss" strings (day-of-year included,
// microsecond precision). Leap-second instants render "60" in the seconds
// field.
func (c *Converter) TicksToTimestamps(ticks []float64, epoch Epoch) ([]string, error) {
	dates, ranges, err := c.TicksToDates(ticks, epoch)
	if err != nil {
		return nil, err
	}
	leapSet := indexSetFromRanges(ranges)

	out := make([]string, len(dates))
	for i, d := range dates {
		if !leapSet[i] {
			out[i] = d.Format(ffTimestampLayout)
			continue
		}
		prefix := d.Format("2006 002 Jan 02 15:04:")
		out[i] = fmt.Sprintf("%s60.%06d", prefix, d.Nanosecond()/1e3)
	}
	return out, nil
}

// TickToTimestamp is the scalar form of TicksToTimestamps.
func (c *Converter) TickToTimestamp(tick float64, epoch Epoch) (string, error) {
	out, err := c.TicksToTimestamps([]float64{tick}, epoch)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// TimestampToISO converts a flat-file native timestamp string ("YYYY DDD
// Mon DD HH:MM:SS.ssssss") into ISO form ("YYYY-MM-DDTHH:MM:SS.sss").
// Ported from the original fflib's ff_ts_to_iso helper.
func TimestampToISO(ts string) (string, error) {
	t, err := time.Parse(ffTimestampLayout, ts)
	if err != nil {
		return "", fmt.Errorf("fftime: bad flat-file timestamp %q: %w", ts, err)
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6), nil
}

func indexSetFromRanges(ranges []LeapRange) map[int]bool {
	set := map[int]bool{}
	for _, r := range ranges {
		for i := r.Start; i <= r.End; i++ {
			set[i] = true
		}
	}
	return set
}
