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
	"fmt"
	"strconv"
	"time"

	"github.com/facebook/flatfile/ffheader"
	"github.com/facebook/flatfile/ffrecord"
	"github.com/facebook/flatfile/fftime"
	"github.com/facebook/flatfile/leaptable"
)

// Writer assembles a new flat file: a header built up one keyword/column
// at a time, plus a record table derived from a time axis and a set of
// data columns.
type Writer struct {
	basename  string
	Header    *ffheader.Header
	converter *fftime.Converter
	rows      [][]float64
}

// NewWriter returns a Writer for a new flat file named basename, with its
// epoch set to epoch. table supplies leap second data for leap-aware
// epochs.
func NewWriter(basename string, epoch fftime.Epoch, table *leaptable.Table) *Writer {
	h := ffheader.New(basename)
	h.Epoch = ffheader.Epoch(epoch)
	return &Writer{basename: basename, Header: h, converter: newConverter(table)}
}

// SetCompatible switches the header's column table to fixed legacy
// widths.
func (w *Writer) SetCompatible() { w.Header.SetCompatible() }

// SetLabels sets the column names, time column first.
func (w *Writer) SetLabels(timeLabel string, names []string) error {
	return w.Header.SetLabels(timeLabel, names)
}

// SetUnits sets per-column units, time column first.
func (w *Writer) SetUnits(timeUnits string, units []string) error {
	return w.Header.SetUnits(timeUnits, units)
}

// SetSources sets per-column sources.
func (w *Writer) SetSources(sources []string) error {
	return w.Header.SetSources(sources)
}

// SetAbstract replaces the header's free-form abstract text.
func (w *Writer) SetAbstract(lines []string) {
	w.Header.SetAbstract(lines)
}

// SetErrorFlag replaces the header's ERROR FLAG sentinel value.
func (w *Writer) SetErrorFlag(flag float64) {
	w.Header.ErrorFlag = flag
}

// SetData converts times to ticks under the header's epoch and combines
// them with columns (one slice per non-time column, in header column
// order) into the writer's record table. Every column, and times itself,
// must have the same length; the column count must match the number of
// data columns the header's column table already describes.
func (w *Writer) SetData(times []time.Time, columns [][]float64) error {
	if len(w.Header.Columns) != 0 && len(columns) != len(w.Header.Columns)-1 {
		return fmt.Errorf("%w: %d data columns for %d header columns", ErrShapeMismatch, len(columns), len(w.Header.Columns)-1)
	}
	for i, col := range columns {
		if len(col) != len(times) {
			return fmt.Errorf("%w: column %d has %d values for %d timestamps", ErrShapeMismatch, i, len(col), len(times))
		}
	}

	ticks, err := w.converter.DatesToTicks(times, fftime.Epoch(w.Header.Epoch))
	if err != nil {
		return err
	}

	rows := make([][]float64, len(times))
	for r := range rows {
		row := make([]float64, len(columns)+1)
		row[0] = ticks[r]
		for c, col := range columns {
			row[c+1] = col[r]
		}
		rows[r] = row
	}
	w.rows = rows
	return nil
}

// Write serializes the header and record table to basename+".ffh" and
// basename+".ffd". FIRST TIME and LAST TIME are derived here, not inside
// ffheader, since HeaderCodec has no dependency on TimeCore.
func (w *Writer) Write() error {
	w.Header.Keywords.Set("NROWS", strconv.Itoa(len(w.rows)))

	if len(w.rows) > 0 {
		epoch := fftime.Epoch(w.Header.Epoch)
		first, err := w.converter.TickToTimestamp(w.rows[0][0], epoch)
		if err != nil {
			return err
		}
		last, err := w.converter.TickToTimestamp(w.rows[len(w.rows)-1][0], epoch)
		if err != nil {
			return err
		}
		w.Header.Keywords.Set("FIRST TIME", first)
		w.Header.Keywords.Set("LAST TIME", last)
	}

	if err := w.Header.WriteFile(w.basename + ".ffh"); err != nil {
		return err
	}
	return ffrecord.WriteFile(w.basename+".ffd", w.Header, w.rows)
}
