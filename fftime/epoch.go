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

// Package fftime implements the flat-file time conversion subsystem:
// round-tripping between (date, epoch) and (tick, epoch) pairs, absorbing
// the historical leap second table, and producing the flat-file's two
// textual timestamp forms.
package fftime

import (
	"fmt"
	"time"
)

// Epoch names one of the four fixed reference datetimes a flat file's
// EPOCH keyword can carry.
type Epoch string

// The closed set of epochs a flat file header may declare.
const (
	Y1966 Epoch = "Y1966"
	Y1970 Epoch = "Y1970"
	Y2000 Epoch = "Y2000"
	J2000 Epoch = "J2000"
)

// offsetDelta is the seconds Y2000 and J2000 are shifted by from their
// nominal midnight/noon reference. The physically correct TAI-TT offset is
// 32.184s; this module preserves the historical integer 32 for
// compatibility, per spec.
const offsetDelta = 32 * time.Second

// tableDelta is subtracted from the leap table's cumulative values before
// they are used to offset datetimes for epochs at or after 1999, to match
// the 32s already folded into those epochs' reference datetime.
const tableDelta = 32.0

var epochRef = map[Epoch]time.Time{
	Y1966: time.Date(1966, time.January, 1, 0, 0, 0, 0, time.UTC),
	Y1970: time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
	Y2000: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-offsetDelta),
	J2000: time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC).Add(-offsetDelta),
}

// ErrUnknownEpoch is returned whenever an Epoch value outside the
// enumerated set is used in a time operation.
var ErrUnknownEpoch = fmt.Errorf("fftime: unknown epoch")

// ReferenceDatetime returns the UTC datetime an epoch's tick 0 corresponds
// to, or ErrUnknownEpoch if e is not one of the four recognized epochs.
func ReferenceDatetime(e Epoch) (time.Time, error) {
	dt, ok := epochRef[e]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownEpoch, e)
	}
	return dt, nil
}

// LeapAware reports whether ticks for e advance through leap seconds
// (Y2000, J2000) or count strictly elapsed UTC-naive seconds (Y1966,
// Y1970).
func LeapAware(e Epoch) bool {
	return e == Y2000 || e == J2000
}

// ValidEpoch reports whether e is one of the four recognized epochs.
func ValidEpoch(e Epoch) bool {
	_, ok := epochRef[e]
	return ok
}

// stripTZ reinterprets t's wall-clock components as a naive UTC instant,
// discarding whatever Location/offset it carried. Flat-file timestamps
// carry no timezone information.
func stripTZ(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}
