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
	"fmt"
	"time"
)

// DefaultChunkWidth is the chunk width ffsplit uses absent an explicit
// configuration: four hours, matching the historical ifg_* chunking
// convention this format's readers assume.
const DefaultChunkWidth = 4 * time.Hour

// chunkNameLayout formats a chunk boundary as it appears in a chunk's
// basename: "ifg_<start>_<end>" with each timestamp in YYYYMMDDHHMMSS.
const chunkNameLayout = "20060102150405"

// Chunk names one contiguous run of records, as the half-open interval
// [Start, End), and the row indices of the source table it spans.
type Chunk struct {
	Start      time.Time
	End        time.Time
	FirstIndex int
	LastIndex  int
}

// Name returns the chunk's basename, ifg_<startUTC>_<endUTC>.
func (c Chunk) Name() string {
	return fmt.Sprintf("ifg_%s_%s", c.Start.UTC().Format(chunkNameLayout), c.End.UTC().Format(chunkNameLayout))
}

// Split partitions r's record table into contiguous chunks of width,
// aligned to width-sized buckets since the Unix epoch. An empty table
// yields no chunks.
func Split(r *Reader, width time.Duration) ([]Chunk, error) {
	if width <= 0 {
		width = DefaultChunkWidth
	}

	dates, _, err := r.GetTimes()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}

	bucketOf := func(t time.Time) int64 {
		return t.Unix() / int64(width.Seconds())
	}

	var chunks []Chunk
	start := 0
	bucket := bucketOf(dates[0])
	for i := 1; i <= len(dates); i++ {
		if i < len(dates) && bucketOf(dates[i]) == bucket {
			continue
		}
		b := bucket
		chunkStart := time.Unix(b*int64(width.Seconds()), 0).UTC()
		chunks = append(chunks, Chunk{
			Start:      chunkStart,
			End:        chunkStart.Add(width),
			FirstIndex: start,
			LastIndex:  i - 1,
		})
		if i < len(dates) {
			start = i
			bucket = bucketOf(dates[i])
		}
	}
	return chunks, nil
}
