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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebook/flatfile/leaptable"
)

func fixtureTable() *leaptable.Table {
	return leaptable.New([]leaptable.Entry{
		{CumulativeLeap: 32, Date: time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{CumulativeLeap: 33, Date: time.Date(2006, time.January, 1, 0, 0, 0, 0, time.UTC)},
	})
}

func TestTickToDateEpochReference(t *testing.T) {
	c := NewConverter(fixtureTable())

	d, leap, err := c.TickToDate(0, Y1970)
	require.NoError(t, err)
	require.False(t, leap)
	require.Equal(t, time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), d)

	d, leap, err = c.TickToDate(0, Y2000)
	require.NoError(t, err)
	require.False(t, leap)
	require.Equal(t, time.Date(1999, time.December, 31, 23, 59, 28, 0, time.UTC), d)
}

func TestDateToTickLeapFree(t *testing.T) {
	c := NewConverter(fixtureTable())

	tick, err := c.DateToTick(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), Y1966)
	require.NoError(t, err)
	require.Equal(t, float64(4*365*86400+86400), tick)

	tick, err = c.DateToTick(time.Date(1971, time.January, 1, 0, 0, 0, 0, time.UTC), Y1970)
	require.NoError(t, err)
	require.Equal(t, float64(365*86400), tick)
}

func TestDateToTickY2000LeapArithmetic(t *testing.T) {
	c := NewConverter(fixtureTable())

	y2000, err := c.DateToTick(time.Date(2004, time.January, 1, 0, 0, 0, 0, time.UTC), Y2000)
	require.NoError(t, err)
	require.Equal(t, float64(4*365*86400+86400+32), y2000)

	j2000, err := c.DateToTick(time.Date(2004, time.January, 1, 0, 0, 0, 0, time.UTC), J2000)
	require.NoError(t, err)
	require.Equal(t, y2000-43200, j2000)
}

func TestRoundTripLeapFreeEpochs(t *testing.T) {
	c := NewConverter(fixtureTable())
	dates := []time.Time{
		time.Date(1990, time.June, 1, 3, 4, 5, 0, time.UTC),
		time.Date(2010, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	for _, epoch := range []Epoch{Y1966, Y1970} {
		for _, d := range dates {
			tick, err := c.DateToTick(d, epoch)
			require.NoError(t, err)
			back, _, err := c.TickToDate(tick, epoch)
			require.NoError(t, err)
			require.Equal(t, d, back, "epoch=%s date=%s", epoch, d)
		}
	}
}

// TestRoundTripLeapAwareEpochs exercises the leap-aware round trip for
// dates that fall within the leap table's covered span, between two known
// boundaries: this is the supported range the invariant in spec.md §8
// assumes. Dates outside any known boundary inherit the same
// before-the-first-entry asymmetry as the original fflib port.
func TestRoundTripLeapAwareEpochs(t *testing.T) {
	c := NewConverter(fixtureTable())
	dates := []time.Time{
		time.Date(2002, time.March, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2004, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, epoch := range []Epoch{Y2000, J2000} {
		for _, d := range dates {
			tick, err := c.DateToTick(d, epoch)
			require.NoError(t, err)
			back, _, err := c.TickToDate(tick, epoch)
			require.NoError(t, err)
			require.Equal(t, d, back, "epoch=%s date=%s", epoch, d)
		}
	}
}

func TestLeapFreeEpochsNeverReportLeapRanges(t *testing.T) {
	// Data Model classifies Y1966 and Y1970 as leap-free: ticks are exactly
	// elapsed seconds and leap_ranges is always empty, even across a
	// historical leap boundary.
	c := NewConverter(fixtureTable())
	boundary := time.Date(2006, time.January, 1, 0, 0, 0, 0, time.UTC)
	T, err := c.DateToTick(boundary, Y1970)
	require.NoError(t, err)

	dates, ranges, err := c.TicksToDates([]float64{T - 1, T}, Y1970)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	require.Equal(t, boundary, dates[1])
	require.Empty(t, ranges)
}

func TestLeapInstantY2000AtBoundary(t *testing.T) {
	c := NewConverter(fixtureTable())
	boundary := time.Date(2006, time.January, 1, 0, 0, 0, 0, time.UTC)
	T, err := c.DateToTick(boundary, Y2000)
	require.NoError(t, err)

	dates, ranges, err := c.TicksToDates([]float64{T - 1, T}, Y2000)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	require.Equal(t, time.Date(2005, time.December, 31, 23, 59, 59, 0, time.UTC), dates[0])
	require.Equal(t, dates[0], dates[1])
	require.NotEmpty(t, ranges)
}

func TestUnknownEpoch(t *testing.T) {
	c := NewConverter(fixtureTable())
	_, err := c.DateToTick(time.Now(), Epoch("bogus"))
	require.ErrorIs(t, err, ErrUnknownEpoch)
}

func TestEmptyInput(t *testing.T) {
	c := NewConverter(fixtureTable())
	ticks, err := c.DatesToTicks(nil, Y1970)
	require.NoError(t, err)
	require.Empty(t, ticks)

	dates, ranges, err := c.TicksToDates(nil, Y2000)
	require.NoError(t, err)
	require.Empty(t, dates)
	require.Empty(t, ranges)
}

func TestTicksToISOLeapSubstitution(t *testing.T) {
	c := NewConverter(fixtureTable())
	boundary := time.Date(2006, time.January, 1, 0, 0, 0, 0, time.UTC)
	T, err := c.DateToTick(boundary, Y2000)
	require.NoError(t, err)

	iso, err := c.TicksToISO([]float64{T - 1, T}, Y2000)
	require.NoError(t, err)
	require.Equal(t, "2005-12-31T23:59:59.000", iso[0])
	require.Equal(t, "2005-12-31T23:59:60.000", iso[1])
}
