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

// Package leaptable loads the IERS/IANA "leap-seconds.list" document into an
// ordered table of leap second boundaries, whose entries fftime reads, and
// answers "what was the cumulative leap offset in force at this instant"
// queries via LeapSecondsAt.
package leaptable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"golang.org/x/exp/slices"
)

// dateCommentLayout matches the trailing comment IANA appends to each data
// line, e.g. "# 1 Jan 2017".
const dateCommentLayout = "# 2 Jan 2006"

// Entry is one boundary in the leap second table: at TAISeconds (seconds
// since the NTP/TAI epoch used by the list) the cumulative leap offset
// becomes CumulativeLeap, an instant also recoverable as Date.
type Entry struct {
	TAISeconds     float64
	CumulativeLeap float64
	Date           time.Time
}

// Table is an ascending-by-Date sequence of Entry values.
type Table struct {
	entries []Entry
}

// New wraps an already-ordered slice of entries. Used by tests to build
// fixture tables without touching the filesystem.
func New(entries []Entry) *Table {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return &Table{entries: out}
}

// Load reads a leap-seconds.list-shaped file from disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("leaptable: could not open %q: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a leap-seconds.list-shaped stream. Lines starting with '#'
// are comments and are skipped; data lines are tab-separated
// (tai_seconds, cumulative_leap, comment-with-date). The loader is pure:
// the same bytes always yield the same table.
func Parse(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	// leap-seconds.list lines are short; the default 64KiB token limit is
	// already generous, no need to grow the buffer.
	var entries []Entry

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}

		tai, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("leaptable: bad tai_seconds field %q: %w", fields[0], err)
		}
		leap, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("leaptable: bad cumulative_leap field %q: %w", fields[1], err)
		}
		date, err := time.Parse(dateCommentLayout, strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("leaptable: bad date comment %q: %w", fields[2], err)
		}

		entries = append(entries, Entry{
			TAISeconds:     tai,
			CumulativeLeap: leap,
			Date:           date,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("leaptable: read error: %w", err)
	}

	return &Table{entries: entries}, nil
}

// Len returns the number of boundary entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the ordered boundary entries. The returned slice must not
// be mutated by callers.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// LeapSecondsAt returns the cumulative leap offset in force at query: the
// CumulativeLeap of the latest entry whose Date is not after query. A query
// before the first known boundary returns 0. A query after the last known
// boundary returns the last known cumulative value, since no later
// boundary has been observed.
func (t *Table) LeapSecondsAt(query time.Time) float64 {
	if t.Len() == 0 {
		return 0
	}
	if t.entries[0].Date.After(query) {
		return 0
	}

	idx := t.floorIndex(query)
	return t.entries[idx].CumulativeLeap
}

// floorIndex returns the rightmost index p such that entries[p].Date is not
// after query (the boundary currently in force). Callers must first check
// that entries[0].Date does not come after query.
func (t *Table) floorIndex(query time.Time) int {
	idx, _ := slices.BinarySearchFunc(t.entries, query, func(e Entry, q time.Time) int {
		switch {
		case e.Date.Before(q):
			return -1
		case e.Date.After(q):
			return 1
		default:
			return 0
		}
	})
	if idx < len(t.entries) && t.entries[idx].Date.Equal(query) {
		return idx
	}
	return idx - 1
}

// Hash fingerprints the loaded table's contents so callers can detect a
// stale cached copy without re-reading the source file byte-for-byte.
func (t *Table) Hash() uint64 {
	h := xxhash.New()
	for _, e := range t.Entries() {
		fmt.Fprintf(h, "%v\t%v\t%s\n", e.TAISeconds, e.CumulativeLeap, e.Date.UTC().Format(time.RFC3339))
	}
	return h.Sum64()
}
