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

//go:build linux || darwin

package ffrecord

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/facebook/flatfile/ffheader"
)

// MappedTable is a memory-mapped view of a .ffd file. Column values are
// decoded lazily on access, directly out of the mapped pages, rather than
// copied up front into a Table: this is the fast path for large files
// where a caller only needs a handful of rows or a single column.
type MappedTable struct {
	hdr  *ffheader.Header
	data []byte
	file *os.File
}

// MemmapTable memory-maps path read-only and shapes the mapping per hdr's
// column table.
func MemmapTable(path string, hdr *ffheader.Header) (*MappedTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ffrecord: could not open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ffrecord: could not stat %s: %w", path, err)
	}
	if fi.Size() == 0 {
		f.Close()
		return &MappedTable{hdr: hdr}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ffrecord: mmap %s: %w", path, err)
	}
	return &MappedTable{hdr: hdr, data: data, file: f}, nil
}

// Close unmaps the file and releases its descriptor.
func (m *MappedTable) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
	}
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

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
	recl := m.hdr.Recl()
	if column < 0 || column >= len(m.hdr.Columns) {
		return nil, fmt.Errorf("ffrecord: column %d out of range", column)
	}
	c := m.hdr.Columns[column]
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		field := m.data[i*recl+c.Loc : i*recl+c.Loc+c.Type.Size()]
		switch c.Type.Size() {
		case 4:
			out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(field)))
		case 8:
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(field))
		}
	}
	return out, nil
}
