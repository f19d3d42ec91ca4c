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

package flatfile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebook/flatfile/fftime"
)

func TestSplitIntoChunks(t *testing.T) {
	dir := t.TempDir()
	basename := filepath.Join(dir, "long")

	w := NewWriter(basename, fftime.Y1970, nil)
	require.NoError(t, w.SetLabels("t", []string{"range"}))
	require.NoError(t, w.SetUnits("s", []string{"m"}))
	require.NoError(t, w.SetSources([]string{"laser"}))

	base := time.Date(2004, time.January, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(time.Hour),
		base.Add(5 * time.Hour),
		base.Add(6 * time.Hour),
	}
	require.NoError(t, w.SetData(times, [][]float64{{1, 2, 3, 4}}))
	require.NoError(t, w.Write())

	r, err := Open(basename, nil)
	require.NoError(t, err)

	chunks, err := Split(r, DefaultChunkWidth)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, 0, chunks[0].FirstIndex)
	require.Equal(t, 1, chunks[0].LastIndex)
	require.Equal(t, 2, chunks[1].FirstIndex)
	require.Equal(t, 3, chunks[1].LastIndex)
	require.Contains(t, chunks[0].Name(), "ifg_20040101000000_")
}

func TestSplitEmptyTable(t *testing.T) {
	dir := t.TempDir()
	basename := filepath.Join(dir, "empty")
	w := NewWriter(basename, fftime.Y1970, nil)
	require.NoError(t, w.SetLabels("t", []string{"range"}))
	require.NoError(t, w.SetUnits("s", []string{"m"}))
	require.NoError(t, w.SetSources([]string{"laser"}))
	require.NoError(t, w.SetData(nil, [][]float64{{}}))
	require.NoError(t, w.Write())

	r, err := Open(basename, nil)
	require.NoError(t, err)

	chunks, err := Split(r, DefaultChunkWidth)
	require.NoError(t, err)
	require.Empty(t, chunks)
}
