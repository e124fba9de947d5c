/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fdx

import (
	"sort"
	"strings"

	"fountainfdx/internal/fountain"
)

// CanvasRows is the number of rows on the title page.
const CanvasRows = 60

// Paragraph alignments.
const (
	AlignLeft   = "Left"
	AlignRight  = "Right"
	AlignCenter = "Center"
)

// Placement is a title page block positioned on the row canvas.
// It covers rows [Start, Start+Height).
type Placement struct {
	Key    string
	Start  int
	Height int
	Align  string
	Runs   []fountain.Run
}

// End returns the first row after the block.
func (p Placement) End() int { return p.Start + p.Height }

// BlockHeight is the number of rows a detail occupies: one plus its line breaks.
func BlockHeight(runs []fountain.Run) int {
	n := 1
	for _, r := range runs {
		n += strings.Count(r.Text, "\n")
	}
	return n
}

// LayoutTitlePage places Title, Credit, Author (or Authors) and Contact.
//   - Title is centred around the first third of the canvas.
//   - Credit and Author follow the previously placed block with a two row gap,
//     or start two rows below the first third when nothing precedes them.
//   - Contact is left aligned and ends on the last row.
//
// Missing details are skipped. Overlaps are not corrected here.
func LayoutTitlePage(doc *fountain.Document) []Placement {
	third := CanvasRows / 3
	var out []Placement
	nextStart := func() int {
		if len(out) == 0 {
			return third + 2
		}
		return out[len(out)-1].End() + 2
	}

	if runs, ok := doc.TitleDetail("Title"); ok {
		h := BlockHeight(runs)
		out = append(out, Placement{Key: "Title", Start: third - h/2, Height: h, Align: AlignCenter, Runs: runs})
	}
	if runs, ok := doc.TitleDetail("Credit"); ok {
		out = append(out, Placement{Key: "Credit", Start: nextStart(), Height: BlockHeight(runs), Align: AlignCenter, Runs: runs})
	}
	authorKey := "Author"
	runs, ok := doc.TitleDetail(authorKey)
	if !ok {
		authorKey = "Authors"
		runs, ok = doc.TitleDetail(authorKey)
	}
	if ok {
		out = append(out, Placement{Key: authorKey, Start: nextStart(), Height: BlockHeight(runs), Align: AlignCenter, Runs: runs})
	}
	if runs, ok := doc.TitleDetail("Contact"); ok {
		h := BlockHeight(runs)
		out = append(out, Placement{Key: "Contact", Start: CanvasRows - h, Height: h, Align: AlignLeft, Runs: runs})
	}
	return out
}

// rowOrder returns the placements sorted by start row.
func rowOrder(ps []Placement) []Placement {
	sorted := append([]Placement(nil), ps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return sorted
}

// SplitLines breaks runs at line breaks so that each returned slice is one
// row of text. Trailing "\r" is removed and empty pieces are dropped.
func SplitLines(runs []fountain.Run) [][]fountain.Run {
	lines := [][]fountain.Run{nil}
	for _, r := range runs {
		for i, part := range strings.Split(r.Text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			part = strings.TrimSuffix(part, "\r")
			if part == "" {
				continue
			}
			last := len(lines) - 1
			lines[last] = append(lines[last], fountain.Run{Style: r.Style, Text: part})
		}
	}
	return lines
}
