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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// columnFields is the write order of the six column-table fields.
var columnFields = []string{"#", "NAME", "UNITS", "SOURCE", "TYPE", "LOC"}

// compatibleWidths are the fixed column-table field widths SetCompatible
// selects, matching the legacy layout older flat-file readers expect.
var compatibleWidths = map[string]int{"#": 3, "NAME": 9, "UNITS": 9, "SOURCE": 25, "TYPE": 5, "LOC": 3}

// cdateLayout is the timestamp format CDATE is written in.
const cdateLayout = "2006 002 Jan 02 15:04:05.000000"

// WriteFile writes h to path, creating or truncating it.
func (h *Header) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ffheader: could not create %s: %w", path, err)
	}
	defer f.Close()
	return h.Write(f)
}

// Write serializes h in the flat-file header document format: pre-table
// keywords, the column description table, an ABSTRACT marker, the
// remaining keyword/value pairs, the abstract text, and a final END line.
func (h *Header) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	h.Keywords.Set("RECL", strconv.Itoa(h.Recl()))
	h.Keywords.Set("NCOLS", strconv.Itoa(len(h.Columns)))
	h.Keywords.Set("EPOCH", string(h.Epoch))
	h.Keywords.Set("CDATE", time.Now().Format(cdateLayout))

	for _, key := range preTableKeys {
		if v, ok := h.Keywords.Get(key); ok {
			writeLine(bw, key+"="+v)
		}
	}

	cols := append([]Column(nil), h.Columns...)
	slices.SortFunc(cols, func(a, b Column) bool { return a.Index < b.Index })

	widths := h.columnWidths()
	writeLine(bw, columnHeaderLine(widths))
	for _, c := range cols {
		writeLine(bw, columnRowLine(c, widths, h.compatible))
	}

	writeLine(bw, "ABSTRACT")

	h.Keywords.Set("ERROR FLAG", formatFloat(h.ErrorFlag))
	for _, key := range h.Keywords.Keys() {
		if preTableKeySet[key] {
			continue
		}
		v, _ := h.Keywords.Get(key)
		writeLine(bw, key+"="+v)
	}

	for _, l := range h.Abstract {
		writeLine(bw, l)
	}

	writeLine(bw, "END")

	return bw.Flush()
}

// writeLine emits s padded to exactly LineWidth characters, with no
// trailing separator: logical lines are concatenated back to back, per
// the on-disk format's bit-exact layout.
func writeLine(bw *bufio.Writer, s string) {
	bw.WriteString(padLine(s))
}

func columnHeaderLine(widths map[string]int) string {
	var b strings.Builder
	for _, f := range columnFields {
		fmt.Fprintf(&b, "%-*s", widths[f], f)
	}
	return b.String()
}

func columnRowLine(c Column, widths map[string]int, compatible bool) string {
	values := map[string]string{
		"#":      fmt.Sprintf("%03d", c.Index),
		"NAME":   padTrunc(c.Name, widths["NAME"], compatible),
		"UNITS":  padTrunc(c.Units, widths["UNITS"], compatible),
		"SOURCE": padTrunc(c.Source, widths["SOURCE"], compatible),
		"TYPE":   c.Type.String(),
		"LOC":    strconv.Itoa(c.Loc),
	}
	var b strings.Builder
	for _, f := range columnFields {
		fmt.Fprintf(&b, "%-*s", widths[f], values[f])
	}
	return b.String()
}

// columnWidths returns the field width, in characters, each column-table
// field is padded to on write.
func (h *Header) columnWidths() map[string]int {
	if h.compatible {
		return compatibleWidths
	}
	widths := map[string]int{"#": 4, "NAME": 5, "UNITS": 6, "SOURCE": 7, "TYPE": 5, "LOC": 4}
	grow := func(field string, n int) {
		if n+1 > widths[field] {
			widths[field] = n + 1
		}
	}
	for _, c := range h.Columns {
		grow("#", len(fmt.Sprintf("%03d", c.Index)))
		grow("NAME", len(c.Name))
		grow("UNITS", len(c.Units))
		grow("SOURCE", len(c.Source))
		grow("LOC", len(strconv.Itoa(c.Loc)))
	}
	return widths
}

// padTrunc returns s, truncated to fit within width-1 characters (leaving
// at least one separating space before the next field) when compatible
// legacy widths are in force. Non-compatible widths are always grown to
// fit their content, so no truncation happens there.
func padTrunc(s string, width int, compatible bool) string {
	if compatible && len(s) > width-1 && width > 1 {
		s = s[:width-1]
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
