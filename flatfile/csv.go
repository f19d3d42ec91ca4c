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
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// DefaultPrecision is the number of digits after the decimal point ToCSV
// uses for data columns when precision is 0.
const DefaultPrecision = 7

// ToCSV writes the reader's record table as CSV: a header row of column
// names, then one row per record with an ISO-ms timestamp (leap-second
// instants rendered with a 60 in the seconds field) followed by each data
// column formatted to precision digits after the decimal point.
// precision of 0 selects DefaultPrecision. The time column's header label
// is forced to "TIME" unless its declared name already mentions "time".
func (r *Reader) ToCSV(w io.Writer, precision int) error {
	if precision == 0 {
		precision = DefaultPrecision
	}

	ticks := r.Table.TimeColumn(r.Header)
	stamps, err := r.converter.TicksToISO(ticks, epochOf(r.Header))
	if err != nil {
		return err
	}

	ti := r.Header.TimeColumnIndex()
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(r.Header.Columns))
	dataCols := make([]int, 0, len(r.Header.Columns)-1)
	for i, c := range r.Header.Columns {
		name := c.Name
		if i == ti && !strings.Contains(strings.ToLower(name), "time") {
			name = "TIME"
		}
		header = append(header, name)
		if i != ti {
			dataCols = append(dataCols, i)
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("flatfile: writing CSV header: %w", err)
	}

	format := fmt.Sprintf("%%.%df", precision)
	rowBuf := make([]string, len(header))
	for n, row := range r.Table.Rows {
		rowBuf[ti] = stamps[n]
		for _, ci := range dataCols {
			rowBuf[ci] = fmt.Sprintf(format, row[ci])
		}
		if err := cw.Write(rowBuf); err != nil {
			return fmt.Errorf("flatfile: writing CSV row %d: %w", n, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
