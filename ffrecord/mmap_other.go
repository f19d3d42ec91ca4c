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

//go:build !linux && !darwin

package ffrecord

import (
	"fmt"
	"os"

	"github.com/facebook/flatfile/ffheader"
)

// MappedTable falls back to an ordinary in-memory read on platforms
// without unix.Mmap support. The interface matches the unix fast path;
// only the underlying I/O strategy differs.
type MappedTable struct {
	hdr  *ffheader.Header
	data []byte
}

// MemmapTable reads path fully into memory and shapes it per hdr's column
// table.
func MemmapTable(path string, hdr *ffheader.Header) (*MappedTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ffrecord: could not read %s: %w", path, err)
	}
	return &MappedTable{hdr: hdr, data: data}, nil
}

// Close is a no-op on this platform.
func (m *MappedTable) Close() error { return nil }

// NumRows returns the number of complete records in the mapping.
func (m *MappedTable) NumRows() int {
	recl := m.hdr.Recl()
	if recl == 0 {
		return 0
	}
	return len(m.data) / recl
}

// Row decodes and returns record i.
func (m *MappedTable) Row(i int) ([]float64, error) {
	recl := m.hdr.Recl()
	if recl == 0 || i < 0 || (i+1)*recl > len(m.data) {
		return nil, fmt.Errorf("ffrecord: row %d out of range", i)
	}
	return decodeRow(m.data[i*recl:(i+1)*recl], m.hdr.Columns)
}

// Column decodes and returns every row's value for the column-th field.
func (m *MappedTable) Column(column int) ([]float64, error) {
	n := m.NumRows()
	if column < 0 || column >= len(m.hdr.Columns) {
		return nil, fmt.Errorf("ffrecord: column %d out of range", column)
	}
	out := make([]float64, n)
	recl := m.hdr.Recl()
	for i := 0; i < n; i++ {
		row, err := decodeRow(m.data[i*recl:(i+1)*recl], m.hdr.Columns)
		if err != nil {
			return nil, err
		}
		out[i] = row[column]
	}
	return out, nil
}
