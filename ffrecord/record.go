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

// Package ffrecord implements the flat-file record codec: the big-endian
// binary record table carried in a .ffd file, laid out column-by-column
// per the widths and offsets a Header's column table describes.
// RecordCodec depends on HeaderCodec for column shape but nothing else.
package ffrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/facebook/flatfile/ffheader"
)

// Errors returned by the record codec.
var (
	// ErrShapeMismatch is returned when a caller-supplied row does not have
	// one value per header column.
	ErrShapeMismatch = errors.New("ffrecord: shape mismatch")
	// ErrTruncatedRecord is returned in strict mode when the final record
	// in a .ffd file is shorter than the header's record length.
	ErrTruncatedRecord = errors.New("ffrecord: truncated trailing record")
)

// Table holds a fully decoded record table: one []float64 row per record,
// one column per header column, values in on-disk column order. The time
// column (wherever the header places it) is stored as a raw tick value,
// not yet converted to a date.
type Table struct {
	Columns []ffheader.Column
	Rows    [][]float64
}

// Shape returns the row and column counts of t.
func (t *Table) Shape() (rows, cols int) {
	return len(t.Rows), len(t.Columns)
}

// Column returns the values of the column-th field (0-based) across every
// row.
func (t *Table) Column(column int) []float64 {
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[column]
	}
	return out
}

// TimeColumn returns the raw tick values of hdr's time column.
func (t *Table) TimeColumn(hdr *ffheader.Header) []float64 {
	return t.Column(hdr.TimeColumnIndex())
}

// TimeRange returns the first and last raw tick value of hdr's time
// column. ok is false for an empty table.
func (t *Table) TimeRange(hdr *ffheader.Header) (first, last float64, ok bool) {
	if len(t.Rows) == 0 {
		return 0, 0, false
	}
	ti := hdr.TimeColumnIndex()
	return t.Rows[0][ti], t.Rows[len(t.Rows)-1][ti], true
}

// ReadFile opens path and decodes it as a .ffd record table shaped by hdr.
func ReadFile(path string, hdr *ffheader.Header, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ffrecord: could not open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, hdr, opts...)
}

// readConfig controls how Read handles a malformed trailing record.
type readConfig struct {
	tolerant bool
}

// ReadOption configures Read.
type ReadOption func(*readConfig)

// Tolerant makes Read silently drop a short trailing record instead of
// returning ErrTruncatedRecord, for reading a .ffd file that is still
// being appended to.
func Tolerant() ReadOption {
	return func(c *readConfig) { c.tolerant = true }
}

// Read decodes a record table from r, shaped by hdr's column table.
// Records are fixed-width and read back to back with no separators, each
// field big-endian per its column's ColType.
func Read(r io.Reader, hdr *ffheader.Header, opts ...ReadOption) (*Table, error) {
	cfg := readConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	recl := hdr.Recl()
	if recl == 0 || len(hdr.Columns) == 0 {
		return &Table{Columns: hdr.Columns}, nil
	}

	br := bufio.NewReaderSize(r, recl*256)
	buf := make([]byte, recl)

	t := &Table{Columns: hdr.Columns}
	for {
		n, err := io.ReadFull(br, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			if cfg.tolerant {
				break
			}
			return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedRecord, n, recl)
		}
		if err != nil {
			return nil, fmt.Errorf("ffrecord: read error: %w", err)
		}
		row, decErr := decodeRow(buf, hdr.Columns)
		if decErr != nil {
			return nil, decErr
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func decodeRow(buf []byte, cols []ffheader.Column) ([]float64, error) {
	row := make([]float64, len(cols))
	for i, c := range cols {
		size := c.Type.Size()
		if c.Loc+size > len(buf) {
			return nil, fmt.Errorf("ffrecord: column %q location %d exceeds record length %d", c.Name, c.Loc, len(buf))
		}
		field := buf[c.Loc : c.Loc+size]
		switch size {
		case 4:
			row[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(field)))
		case 8:
			row[i] = math.Float64frombits(binary.BigEndian.Uint64(field))
		default:
			return nil, fmt.Errorf("ffrecord: column %q has unrecognized type %q", c.Name, c.Type)
		}
	}
	return row, nil
}

// WriteFile creates or truncates path and writes rows in the shape hdr's
// column table describes.
func WriteFile(path string, hdr *ffheader.Header, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ffrecord: could not create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, hdr, rows)
}

// Write encodes rows to w, one fixed-width big-endian record per row, in
// the column order and widths hdr's column table describes. Every row
// must have exactly len(hdr.Columns) values.
func Write(w io.Writer, hdr *ffheader.Header, rows [][]float64) error {
	recl := hdr.Recl()
	bw := bufio.NewWriterSize(w, recl*256)
	buf := make([]byte, recl)

	for r, row := range rows {
		if len(row) != len(hdr.Columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns", ErrShapeMismatch, r, len(row), len(hdr.Columns))
		}
		for i, c := range hdr.Columns {
			size := c.Type.Size()
			switch size {
			case 4:
				binary.BigEndian.PutUint32(buf[c.Loc:c.Loc+4], math.Float32bits(float32(row[i])))
			case 8:
				binary.BigEndian.PutUint64(buf[c.Loc:c.Loc+8], math.Float64bits(row[i]))
			default:
				return fmt.Errorf("ffrecord: column %q has unrecognized type %q", c.Name, c.Type)
			}
		}
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("ffrecord: write error: %w", err)
		}
	}
	return bw.Flush()
}
