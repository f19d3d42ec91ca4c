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

// Package ffheader implements the flat-file header codec: the fixed-width
// 72-column-per-line ASCII document carrying a flat file's keyword/value
// pairs, column description table, and free-form abstract. HeaderCodec has
// no dependency on time conversion or record I/O.
package ffheader

import (
	"errors"
	"fmt"
	"strings"
)

// Epoch names one of the four reference epochs a header's EPOCH keyword
// may carry. Defined locally (rather than imported from fftime) to keep
// HeaderCodec independent, per the component dependency order.
type Epoch string

// The closed set of epochs recognized in an EPOCH keyword value.
const (
	Y1966 Epoch = "Y1966"
	Y1970 Epoch = "Y1970"
	Y2000 Epoch = "Y2000"
	J2000 Epoch = "J2000"
)

// LineWidth is the fixed width, in characters, of every line in a .ffh
// file. Lines are concatenated with no separators.
const LineWidth = 72

// DefaultErrorFlag is the value a Header reports for ERROR FLAG when the
// keyword is absent.
const DefaultErrorFlag = 1e31

// ColType is a column's on-disk type tag.
type ColType byte

// The three column type tags a flat file supports.
const (
	TypeTime   ColType = 'T'
	TypeReal   ColType = 'R'
	TypeDouble ColType = 'D'
)

// Size returns the on-disk byte width of t, or 0 if t is not recognized.
func (t ColType) Size() int {
	switch t {
	case TypeTime, TypeDouble:
		return 8
	case TypeReal:
		return 4
	default:
		return 0
	}
}

func (t ColType) String() string { return string(rune(t)) }

// padLine right-pads (or truncates) s to exactly LineWidth characters.
func padLine(s string) string {
	if len(s) >= LineWidth {
		return s[:LineWidth]
	}
	return s + strings.Repeat(" ", LineWidth-len(s))
}

// preTableKeys are recognized pre-table keywords, in their required write
// order.
var preTableKeys = []string{"DATA", "CDATE", "RECL", "NCOLS", "NROWS", "OPSYS", "EPOCH"}

var preTableKeySet = func() map[string]bool {
	set := make(map[string]bool, len(preTableKeys))
	for _, k := range preTableKeys {
		set[k] = true
	}
	return set
}()

// Column is one row of the header's column description table.
type Column struct {
	Index  int
	Name   string
	Units  string
	Source string
	Type   ColType
	Loc    int
}

// Errors returned by the header codec. These are the MalformedHeader and
// ShapeMismatch error kinds from spec.md §7.
var (
	ErrMalformedHeader = errors.New("ffheader: malformed header")
	ErrShapeMismatch   = errors.New("ffheader: shape mismatch")
	ErrMissingFile     = errors.New("ffheader: could not open header file")
)

// Header holds the full parsed (or in-progress, for a writer) state of a
// flat file's .ffh document.
type Header struct {
	Name      string
	Epoch     Epoch
	ErrorFlag float64
	Keywords  *KeywordDict
	Columns   []Column
	Abstract  []string

	compatible bool
}

// New returns an empty Header for basename, with defaults matching a
// freshly constructed ff_writer in the original system: ERROR FLAG
// 1e31, epoch Y1966, OPSYS UNKNOWN, DATA basename.ffd.
func New(basename string) *Header {
	h := &Header{
		Name:      basename,
		Epoch:     Y1966,
		ErrorFlag: DefaultErrorFlag,
		Keywords:  NewKeywordDict(),
	}
	h.Keywords.Set("DATA", basename+".ffd")
	h.Keywords.Set("OPSYS", "UNKNOWN")
	return h
}

// SetCompatible switches the column-table writer to the fixed legacy
// widths (3,9,9,25,5,3) used by older readers, instead of computing widths
// from the longest value in each column.
func (h *Header) SetCompatible() {
	h.compatible = true
}

// Recl computes the record length implied by the column table: the last
// column's Loc plus its type's size. Returns 0 if there are no columns.
func (h *Header) Recl() int {
	if len(h.Columns) == 0 {
		return 0
	}
	last := h.Columns[len(h.Columns)-1]
	return last.Loc + last.Type.Size()
}

// TimeColumnIndex returns the position (0-based) of the column with
// TypeTime, defaulting to 0 if none is found (matching the original
// get_time_index's fallback).
func (h *Header) TimeColumnIndex() int {
	for i, c := range h.Columns {
		if c.Type == TypeTime {
			return i
		}
	}
	return 0
}

// initColumns builds n fresh columns: column 0 is the time column (8
// bytes), the rest are 4-byte reals, laid out contiguously.
func (h *Header) initColumns(n int) {
	cols := make([]Column, n)
	loc := 0
	for i := 0; i < n; i++ {
		t := TypeReal
		if i == 0 {
			t = TypeTime
		}
		cols[i] = Column{Index: i + 1, Type: t, Loc: loc}
		loc += t.Size()
	}
	h.Columns = cols
}

// SetLabels sets the column names, time column first. names must not
// include the time column; it is labeled timeLabel.
func (h *Header) SetLabels(timeLabel string, names []string) error {
	if h.Columns != nil && len(h.Columns) != len(names)+1 {
		return fmt.Errorf("%w: %d names for %d data columns", ErrShapeMismatch, len(names), len(h.Columns)-1)
	}
	if h.Columns == nil {
		h.initColumns(len(names) + 1)
	}
	h.Columns[0].Name = timeLabel
	for i, n := range names {
		h.Columns[i+1].Name = n
	}
	return nil
}

// SetUnits sets per-column units, time column first.
func (h *Header) SetUnits(timeUnits string, units []string) error {
	if h.Columns != nil && len(h.Columns) != len(units)+1 {
		return fmt.Errorf("%w: %d units for %d data columns", ErrShapeMismatch, len(units), len(h.Columns)-1)
	}
	if h.Columns == nil {
		h.initColumns(len(units) + 1)
	}
	h.Columns[0].Units = timeUnits
	for i, u := range units {
		h.Columns[i+1].Units = u
	}
	return nil
}

// SetSources sets per-column sources. The time column's source is left
// blank, matching the original ff_writer.set_sources.
func (h *Header) SetSources(sources []string) error {
	if h.Columns != nil && len(h.Columns) != len(sources)+1 {
		return fmt.Errorf("%w: %d sources for %d data columns", ErrShapeMismatch, len(sources), len(h.Columns)-1)
	}
	if h.Columns == nil {
		h.initColumns(len(sources) + 1)
	}
	for i, s := range sources {
		h.Columns[i+1].Source = s
	}
	return nil
}

// AppendColumn grows the column table by one entry, computing its Loc from
// the current record length. datatype defaults to TypeReal.
func (h *Header) AppendColumn(name, units, source string, datatype ColType) {
	if datatype == 0 {
		datatype = TypeReal
	}
	loc := h.Recl()
	h.Columns = append(h.Columns, Column{
		Index:  len(h.Columns) + 1,
		Name:   name,
		Units:  units,
		Source: source,
		Type:   datatype,
		Loc:    loc,
	})
}

// SetAbstract replaces the free-form abstract text.
func (h *Header) SetAbstract(lines []string) {
	h.Abstract = append([]string(nil), lines...)
}
