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

package ffrecord

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facebook/flatfile/ffheader"
)

func fixtureHeader(t *testing.T) *ffheader.Header {
	t.Helper()
	h := ffheader.New("sample")
	require.NoError(t, h.SetLabels("t", []string{"range", "az"}))
	require.NoError(t, h.SetUnits("s", []string{"m", "deg"}))
	require.NoError(t, h.SetSources([]string{"laser", "mount"}))
	return h
}

func TestWriteReadRoundTrip(t *testing.T) {
	hdr := fixtureHeader(t)
	rows := [][]float64{
		{0, 1.5, 90},
		{1, 1.6, 91},
		{2, 1.7, 92},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, hdr, rows))

	table, err := Read(&buf, hdr)
	require.NoError(t, err)

	r, c := table.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)

	first, last, ok := table.TimeRange(hdr)
	require.True(t, ok)
	require.Equal(t, 0.0, first)
	require.Equal(t, 2.0, last)

	require.InDelta(t, 1.6, table.Column(1)[1], 1e-6)
}

func TestWriteShapeMismatch(t *testing.T) {
	hdr := fixtureHeader(t)
	var buf bytes.Buffer
	err := Write(&buf, hdr, [][]float64{{0, 1}})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestReadTruncatedRecordStrict(t *testing.T) {
	hdr := fixtureHeader(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, hdr, [][]float64{{0, 1, 2}}))
	truncated := buf.Bytes()[:hdr.Recl()-2]

	_, err := Read(bytes.NewReader(truncated), hdr)
	require.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestReadTruncatedRecordTolerant(t *testing.T) {
	hdr := fixtureHeader(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, hdr, [][]float64{{0, 1, 2}, {1, 2, 3}}))
	full := buf.Bytes()
	truncated := full[:hdr.Recl()+2]

	table, err := Read(bytes.NewReader(truncated), hdr, Tolerant())
	require.NoError(t, err)
	rows, _ := table.Shape()
	require.Equal(t, 1, rows)
}

func TestWriteReadDoubleColumn(t *testing.T) {
	hdr := ffheader.New("sample")
	require.NoError(t, hdr.SetLabels("t", []string{"range"}))
	hdr.Columns[1].Type = ffheader.TypeDouble
	hdr.Columns[1].Loc = 8
	require.Equal(t, 16, hdr.Recl())

	rows := [][]float64{{0, 123456.789}, {1, -42.5}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, hdr, rows))

	table, err := Read(&buf, hdr)
	require.NoError(t, err)
	require.InDelta(t, 123456.789, table.Column(1)[0], 1e-9)
	require.InDelta(t, -42.5, table.Column(1)[1], 1e-9)
}

func TestEmptyHeaderYieldsEmptyTable(t *testing.T) {
	hdr := ffheader.New("empty")
	table, err := Read(bytes.NewReader(nil), hdr)
	require.NoError(t, err)
	rows, cols := table.Shape()
	require.Equal(t, 0, rows)
	require.Equal(t, 0, cols)
}
