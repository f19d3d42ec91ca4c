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
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// ListHeader prints a human-readable summary of the reader's header:
// epoch, error flag, row/column counts, and the column description table.
func (r *Reader) ListHeader(w io.Writer) error {
	rows, cols := r.Table.Shape()

	fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprint(r.Header.Name))
	fmt.Fprintf(w, "epoch: %s   error flag: %g   rows: %d   columns: %d\n\n",
		r.Header.Epoch, r.Header.ErrorFlag, rows, cols)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "name", "units", "source", "type", "loc"})
	for _, c := range r.Header.Columns {
		table.Append([]string{
			strconv.Itoa(c.Index),
			c.Name,
			c.Units,
			c.Source,
			c.Type.String(),
			strconv.Itoa(c.Loc),
		})
	}
	table.Render()

	if len(r.Header.Abstract) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.New(color.Bold).Sprint("abstract:"))
		for _, line := range r.Header.Abstract {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}
