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

package leaptable

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleList = `#	File expires on:	28 December 2025
#
#	Updated through IERS Bulletin C
#
2272060800	10	# 1 Jan 1972
2287785600	11	# 1 Jul 1972
2272060800	32	# 1 Jan 1999
2287785600	33	# 1 Jan 2006
`

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	entries := tbl.Entries()
	require.Equal(t, 10.0, entries[0].CumulativeLeap)
	require.Equal(t, time.Date(1972, time.January, 1, 0, 0, 0, 0, time.UTC), entries[0].Date)
	require.Equal(t, time.Date(2006, time.January, 1, 0, 0, 0, 0, time.UTC), entries[3].Date)
}

func TestParseIsPure(t *testing.T) {
	tbl1, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	tbl2, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Equal(t, tbl1.Hash(), tbl2.Hash())
}

func TestLeapSecondsAtBeforeFirstEntry(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Equal(t, 0.0, tbl.LeapSecondsAt(time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLeapSecondsAtExactBoundaryIsLeftmost(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Equal(t, 10.0, tbl.LeapSecondsAt(time.Date(1972, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLeapSecondsAtMidSegmentUsesPriorBoundary(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Equal(t, 10.0, tbl.LeapSecondsAt(time.Date(1972, time.June, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLeapSecondsAtBeyondLastEntry(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Equal(t, 33.0, tbl.LeapSecondsAt(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseSkipsCommentsOnly(t *testing.T) {
	tbl, err := Parse(strings.NewReader("# just a comment\n# another\n"))
	require.NoError(t, err)
	require.Equal(t, 0, tbl.Len())
}
