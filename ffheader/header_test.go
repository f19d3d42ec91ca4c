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

package ffheader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T) *Header {
	t.Helper()
	h := New("ifg_20040101_20040102")
	h.Epoch = Y2000
	require.NoError(t, h.SetLabels("seconds", []string{"range", "elevation", "azimuth"}))
	require.NoError(t, h.SetUnits("s", []string{"m", "deg", "deg"}))
	require.NoError(t, h.SetSources([]string{"laser", "mount", "mount"}))
	h.SetAbstract([]string{"Sample interferometric range file.", "Generated for test fixtures."})
	return h
}

func TestWriteParseRoundTrip(t *testing.T) {
	h := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	got, err := Parse(&buf)
	require.NoError(t, err)

	require.Equal(t, h.Epoch, got.Epoch)
	require.Equal(t, h.ErrorFlag, got.ErrorFlag)
	require.Len(t, got.Columns, 4)
	require.Equal(t, "seconds", got.Columns[0].Name)
	require.Equal(t, TypeTime, got.Columns[0].Type)
	require.Equal(t, "range", got.Columns[1].Name)
	require.Equal(t, "m", got.Columns[1].Units)
	require.Equal(t, "laser", got.Columns[1].Source)
	require.Equal(t, TypeReal, got.Columns[1].Type)
	require.Equal(t, h.Recl(), got.Recl())
	require.Equal(t, []string{"Sample interferometric range file.", "Generated for test fixtures."}, got.Abstract)

	dataVal, ok := got.Keywords.Get("DATA")
	require.True(t, ok)
	require.Equal(t, "ifg_20040101_20040102.ffd", dataVal)
}

func TestWriteParseRoundTripCompatibleWidths(t *testing.T) {
	h := New("ifg_20040101_20040102")
	h.Epoch = Y2000
	h.SetCompatible()
	require.NoError(t, h.SetLabels("s", []string{"az"}))
	require.NoError(t, h.SetUnits("s", []string{"deg"}))
	require.NoError(t, h.SetSources([]string{"mnt"}))

	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	got, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, got.Columns, 2)
	require.Equal(t, "az", got.Columns[1].Name)
	require.Equal(t, "deg", got.Columns[1].Units)
}

func TestSetUnitsShapeMismatch(t *testing.T) {
	h := New("x")
	require.NoError(t, h.SetLabels("t", []string{"a", "b"}))
	err := h.SetUnits("s", []string{"m"})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAppendColumnComputesLoc(t *testing.T) {
	h := New("x")
	require.NoError(t, h.SetLabels("t", []string{"a"}))
	require.Equal(t, 0, h.Columns[0].Loc)
	require.Equal(t, 8, h.Columns[1].Loc)

	h.AppendColumn("b", "m", "src", TypeReal)
	require.Equal(t, 12, h.Columns[2].Loc)
	require.Equal(t, 16, h.Recl())
}

func TestTimeColumnIndexDefaultsToZero(t *testing.T) {
	h := New("x")
	require.Equal(t, 0, h.TimeColumnIndex())
	require.NoError(t, h.SetLabels("t", []string{"a", "b"}))
	require.Equal(t, 0, h.TimeColumnIndex())
}

func TestParseDefaultsEpochWhenAbsent(t *testing.T) {
	h := New("x")
	require.NoError(t, h.SetLabels("t", []string{"a"}))
	h.Keywords.Set("DATA", "x.ffd")

	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	raw := buf.String()
	raw = strings.Replace(raw, "EPOCH=Y1966"+strings.Repeat(" ", 72-len("EPOCH=Y1966")), strings.Repeat(" ", 72), 1)

	got, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, Y1966, got.Epoch)
}

func TestParseMalformedMissingColumnTable(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("DATA=foo.ffd\n"))
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read("/nonexistent/path/to/header.ffh")
	require.ErrorIs(t, err, ErrMissingFile)
}
