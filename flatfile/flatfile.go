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

// Package flatfile composes ffheader, ffrecord and fftime into the
// complete flat-file façade: a paired .ffh/.ffd document read or written
// as a single unit, with its time column converted to and from ordinary
// Go time.Time values.
package flatfile

import (
	"errors"
	"fmt"

	"github.com/facebook/flatfile/ffheader"
	"github.com/facebook/flatfile/fftime"
	"github.com/facebook/flatfile/leaptable"
)

// ErrUnknownColumn is returned when a caller names a column that does not
// appear in the header's column table.
var ErrUnknownColumn = errors.New("flatfile: unknown column")

// ErrShapeMismatch is returned when a caller supplies data whose shape
// does not match the header's column table, either because a Writer's
// columns disagree in length or a column name list doesn't match the data
// columns given. Flat files in the field have shipped with silently
// truncated or padded columns; this codec rejects that state outright
// rather than reproducing it.
var ErrShapeMismatch = errors.New("flatfile: shape mismatch")

// epochOf translates a header's Epoch into the fftime package's Epoch
// type. The two packages define independent Epoch types (HeaderCodec has
// no dependency on TimeCore), so values are carried across as strings.
func epochOf(h *ffheader.Header) fftime.Epoch {
	return fftime.Epoch(h.Epoch)
}

// columnIndex returns the position of the column named name in hdr's
// column table.
func columnIndex(hdr *ffheader.Header, name string) (int, error) {
	for i, c := range hdr.Columns {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// newConverter builds a fftime.Converter around table, treating a nil
// table the same way fftime.NewConverter does: leap-aware epochs behave
// as if no leap second has ever been announced.
func newConverter(table *leaptable.Table) *fftime.Converter {
	return fftime.NewConverter(table)
}
