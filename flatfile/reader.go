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
	"time"

	"github.com/facebook/flatfile/ffheader"
	"github.com/facebook/flatfile/ffrecord"
	"github.com/facebook/flatfile/fftime"
	"github.com/facebook/flatfile/leaptable"
)

// Reader is a fully decoded flat file: its header, its record table, and
// the leap second table used to interpret the time column.
type Reader struct {
	Header    *ffheader.Header
	Table     *ffrecord.Table
	converter *fftime.Converter
	basename  string
}

// Open reads basename+".ffh" and basename+".ffd" and returns the combined
// reader. table supplies leap second data for leap-aware epochs; pass nil
// if the header's epoch is known to be leap-free.
func Open(basename string, table *leaptable.Table, opts ...ffrecord.ReadOption) (*Reader, error) {
	hdr, err := ffheader.Read(basename + ".ffh")
	if err != nil {
		return nil, err
	}
	rec, err := ffrecord.ReadFile(basename+".ffd", hdr, opts...)
	if err != nil {
		return nil, err
	}
	return &Reader{Header: hdr, Table: rec, converter: newConverter(table), basename: basename}, nil
}

// Memmap returns a zero-copy view of the reader's .ffd file, for callers
// that want to inspect a handful of rows or a single column out of a large
// file without materializing the full matrix. The caller must Close the
// returned table before the underlying file is truncated or replaced.
func (r *Reader) Memmap() (*ffrecord.MappedTable, error) {
	return ffrecord.MemmapTable(r.basename+".ffd", r.Header)
}

// GetTimes decodes the time column into Go times, reporting which result
// indices sit on a true leap-second instant.
func (r *Reader) GetTimes() ([]time.Time, []fftime.LeapRange, error) {
	ticks := r.Table.TimeColumn(r.Header)
	return r.converter.TicksToDates(ticks, epochOf(r.Header))
}

// GetData returns the raw values of the named column, unconverted.
func (r *Reader) GetData(column string) ([]float64, error) {
	idx, err := columnIndex(r.Header, column)
	if err != nil {
		return nil, err
	}
	return r.Table.Column(idx), nil
}

// GetDataTable returns every non-time column keyed by name.
func (r *Reader) GetDataTable() (map[string][]float64, error) {
	ti := r.Header.TimeColumnIndex()
	out := make(map[string][]float64, len(r.Header.Columns))
	for i, c := range r.Header.Columns {
		if i == ti {
			continue
		}
		out[c.Name] = r.Table.Column(i)
	}
	return out, nil
}

// ColumnLabels returns the non-time column names, units and sources, in
// header column order, plus the time column's own name and units. These
// are exactly the arguments a Writer's SetLabels/SetUnits/SetSources
// expect when rebuilding a file with the same shape.
func (r *Reader) ColumnLabels() (timeLabel, timeUnits string, names, units, sources []string) {
	ti := r.Header.TimeColumnIndex()
	for i, c := range r.Header.Columns {
		if i == ti {
			timeLabel, timeUnits = c.Name, c.Units
			continue
		}
		names = append(names, c.Name)
		units = append(units, c.Units)
		sources = append(sources, c.Source)
	}
	return timeLabel, timeUnits, names, units, sources
}

// Slice returns the dates and non-time data columns of the rows
// [first,last], inclusive, in header column order.
func (r *Reader) Slice(first, last int) ([]time.Time, [][]float64, error) {
	dates, _, err := r.GetTimes()
	if err != nil {
		return nil, nil, err
	}
	if first < 0 || last >= len(dates) || first > last {
		return nil, nil, fmt.Errorf("flatfile: row range [%d,%d] out of bounds for %d rows", first, last, len(dates))
	}

	ti := r.Header.TimeColumnIndex()
	var columns [][]float64
	for i := range r.Header.Columns {
		if i == ti {
			continue
		}
		full := r.Table.Column(i)
		columns = append(columns, full[first:last+1])
	}
	return dates[first : last+1], columns, nil
}

// TimeRange returns the first and last date in the file.
func (r *Reader) TimeRange() (time.Time, time.Time, error) {
	first, last, ok := r.Table.TimeRange(r.Header)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("flatfile: empty record table")
	}
	dates, _, err := r.converter.TicksToDates([]float64{first, last}, epochOf(r.Header))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return dates[0], dates[1], nil
}
