/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// Style is a set of emphasis flags. Flags toggle as markers are seen and the
// running value is carried from one line to the next.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
)

// Has reports whether all flags in f are set.
func (s Style) Has(f Style) bool { return s&f == f }

// String joins the set flags with "+" in Bold, Italic, Underline order.
// The empty style yields "".
func (s Style) String() string {
	var parts []string
	if s.Has(Bold) {
		parts = append(parts, "Bold")
	}
	if s.Has(Italic) {
		parts = append(parts, "Italic")
	}
	if s.Has(Underline) {
		parts = append(parts, "Underline")
	}
	return strings.Join(parts, "+")
}

// Run is a span of text sharing one Style.
type Run struct {
	Style Style
	Text  string
}

// Tokenize splits line into emphasis runs with markers removed:
//   - "_" toggles Underline
//   - "**" toggles Bold
//   - "*" toggles Italic
//
// state holds the running flags; it is read as the starting style and left
// with the style in effect after the last marker. Empty runs are dropped, but
// a line that yields no text still returns one empty run with the current style.
func Tokenize(line string, state *Style) []Run {
	var runs []Run
	start := 0
	flush := func(end int) {
		if end > start {
			runs = append(runs, Run{Style: *state, Text: line[start:end]})
		}
	}
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '_':
			flush(i)
			*state ^= Underline
			start = i + 1
		case '*':
			flush(i)
			if i+1 < len(line) && line[i+1] == '*' {
				*state ^= Bold
				i++
			} else {
				*state ^= Italic
			}
			start = i + 1
		}
	}
	if start < len(line) {
		runs = append(runs, Run{Style: *state, Text: line[start:]})
	}
	if len(runs) == 0 {
		runs = append(runs, Run{Style: *state})
	}
	return runs
}

// PlainText concatenates the text of runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
