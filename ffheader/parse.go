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
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// columnHeaderFields is the exact set of tokens the column-table header
// line must contain, in any order: the index column marker plus the five
// named fields.
var columnHeaderFields = map[string]bool{
	"#": true, "NAME": true, "UNITS": true, "SOURCE": true, "TYPE": true, "LOC": true,
}

// slotPattern splits a header line into its variable-width column slots:
// a run of non-space characters followed by its trailing spaces, which is
// exactly how the column-table header line reserves room for each field
// below it.
var slotPattern = regexp.MustCompile(`\S+ *`)

// keywordLineRe matches a "KEY=VALUE" keyword line, per spec.
var keywordLineRe = regexp.MustCompile(`^[^=]+=[^=]+`)

// Read opens path and parses it as a flat-file header.
func Read(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingFile, path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a flat-file header document: a stream of fixed LineWidth
// ASCII lines concatenated with no separators. A keyword/value line is
// "KEY=VALUE", split on the first '='. The column-table header line is
// recognized by its token set ({#, NAME, UNITS, SOURCE, TYPE, LOC}), and
// its slot boundaries (derived from that line's own whitespace runs) give
// the character ranges every column row below it is sliced by. The
// abstract, if present, runs from a line starting "ABSTRACT " to a line
// "END".
func Parse(r io.Reader) (*Header, error) {
	lines, err := splitLines(r)
	if err != nil {
		return nil, err
	}

	h := &Header{Keywords: NewKeywordDict(), Epoch: Y1966}

	i := 0
	colHeaderLine := ""
	for ; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], " ")
		if l == "" {
			continue
		}
		if looksLikeColumnHeader(l) {
			colHeaderLine = l
			i++
			break
		}
		key, value, err := splitKeywordLine(l)
		if err != nil {
			return h, err
		}
		h.Keywords.Set(key, value)
		if key == "EPOCH" {
			h.Epoch = Epoch(strings.TrimSpace(value))
		}
	}
	if colHeaderLine == "" {
		return h, fmt.Errorf("%w: missing column table", ErrMalformedHeader)
	}

	slots, err := columnSlots(colHeaderLine)
	if err != nil {
		return h, err
	}

	ncols := 0
	if v, ok := h.Keywords.Get("NCOLS"); ok {
		ncols, _ = strconv.Atoi(strings.TrimSpace(v))
	}

	for ; i < len(lines); i++ {
		l := lines[i]
		trimmed := strings.TrimRight(l, " ")
		if trimmed == "" || strings.HasPrefix(l, "ABSTRACT ") || trimmed == "ABSTRACT" || trimmed == "END" {
			break
		}
		if ncols > 0 && len(h.Columns) >= ncols {
			break
		}
		col, err := parseColumnRow(l, slots)
		if err != nil {
			return h, err
		}
		h.Columns = append(h.Columns, col)
	}

	// The ABSTRACT marker, if present, opens a section of remaining
	// keyword/value pairs (ERROR FLAG, FIRST TIME, LAST TIME, ...)
	// followed by the free-form abstract text and a final END line.
	if i < len(lines) {
		trimmed := strings.TrimRight(lines[i], " ")
		if trimmed == "ABSTRACT" {
			i++
		}
	}

	for ; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " ")
		if trimmed == "END" {
			break
		}
		if !keywordLineRe.MatchString(trimmed) {
			break
		}
		key, value, err := splitKeywordLine(trimmed)
		if err != nil {
			return h, err
		}
		h.Keywords.Set(key, value)
	}

	for ; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " ")
		if trimmed == "END" {
			break
		}
		h.Abstract = append(h.Abstract, trimmed)
	}

	if v, ok := h.Keywords.Get("ERROR FLAG"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return h, fmt.Errorf("%w: bad ERROR FLAG %q: %v", ErrMalformedHeader, v, err)
		}
		h.ErrorFlag = f
	} else {
		h.ErrorFlag = DefaultErrorFlag
	}

	return h, nil
}

// splitLines reassembles the document's logical LineWidth-character lines.
// Real files concatenate them with no separators; this parser also
// accepts one physical newline per logical line, which is far more
// convenient for hand-written fixtures to inspect and diff. Write itself
// emits no separators.
func splitLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ffheader: read error: %w", err)
	}
	raw := string(data)
	if strings.Contains(raw, "\n") {
		lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
		return lines, nil
	}
	var lines []string
	for len(raw) > 0 {
		if len(raw) <= LineWidth {
			lines = append(lines, raw)
			break
		}
		lines = append(lines, raw[:LineWidth])
		raw = raw[LineWidth:]
	}
	return lines, nil
}

func looksLikeColumnHeader(l string) bool {
	fields := strings.Fields(l)
	if len(fields) != len(columnHeaderFields) {
		return false
	}
	for _, f := range fields {
		if !columnHeaderFields[f] {
			return false
		}
	}
	return true
}

type slot struct {
	name       string
	start, end int
}

// columnSlots locates each of the six column-table fields within l by its
// own whitespace-delimited layout: each slot runs from its token's start
// to the next token's start (the last slot runs to the end of the line).
func columnSlots(l string) ([]slot, error) {
	idxs := slotPattern.FindAllStringIndex(l, -1)
	if len(idxs) != len(columnHeaderFields) {
		return nil, fmt.Errorf("%w: column table header has %d slots, want %d", ErrMalformedHeader, len(idxs), len(columnHeaderFields))
	}
	slots := make([]slot, len(idxs))
	for i, loc := range idxs {
		name := strings.TrimSpace(l[loc[0]:loc[1]])
		end := loc[1]
		if i == len(idxs)-1 {
			end = len(l)
		}
		slots[i] = slot{name: name, start: loc[0], end: end}
	}
	return slots, nil
}

func fieldSlot(slots []slot, name string) (slot, bool) {
	for _, s := range slots {
		if s.name == name {
			return s, true
		}
	}
	return slot{}, false
}

func sliceField(l string, s slot) string {
	end := s.end
	if end > len(l) {
		end = len(l)
	}
	if end < s.start {
		return ""
	}
	return strings.TrimSpace(l[s.start:end])
}

func parseColumnRow(l string, slots []slot) (Column, error) {
	idxSlot, _ := fieldSlot(slots, "#")
	nameSlot, _ := fieldSlot(slots, "NAME")
	unitsSlot, _ := fieldSlot(slots, "UNITS")
	sourceSlot, _ := fieldSlot(slots, "SOURCE")
	typeSlot, ok := fieldSlot(slots, "TYPE")
	if !ok {
		return Column{}, fmt.Errorf("%w: column table header missing TYPE", ErrMalformedHeader)
	}
	locSlot, ok := fieldSlot(slots, "LOC")
	if !ok {
		return Column{}, fmt.Errorf("%w: column table header missing LOC", ErrMalformedHeader)
	}

	typeStr := sliceField(l, typeSlot)
	if typeStr == "" {
		return Column{}, fmt.Errorf("%w: column missing type", ErrMalformedHeader)
	}
	locStr := sliceField(l, locSlot)
	loc, err := strconv.Atoi(locStr)
	if err != nil {
		return Column{}, fmt.Errorf("%w: bad LOC %q: %v", ErrMalformedHeader, locStr, err)
	}

	index := 0
	if idxStr := sliceField(l, idxSlot); idxStr != "" {
		index, _ = strconv.Atoi(idxStr)
	}

	return Column{
		Index:  index,
		Name:   sliceField(l, nameSlot),
		Units:  sliceField(l, unitsSlot),
		Source: sliceField(l, sourceSlot),
		Type:   ColType(typeStr[0]),
		Loc:    loc,
	}, nil
}

func splitKeywordLine(l string) (string, string, error) {
	eq := strings.Index(l, "=")
	if eq < 0 {
		return "", "", fmt.Errorf("%w: line without '=': %q", ErrMalformedHeader, l)
	}
	key := strings.TrimSpace(l[:eq])
	value := strings.TrimSpace(l[eq+1:])
	if key == "" {
		return "", "", fmt.Errorf("%w: blank keyword", ErrMalformedHeader)
	}
	return key, value, nil
}
