/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Kind is the semantic role of a screenplay element.
type Kind int

const (
	SceneHeading Kind = iota
	Action
	Character
	Dialogue
	Parenthetical
	Transition
	CenteredText
	Boneyard
	PageBreak
)

var kindNames = [...]string{
	SceneHeading:  "scene_heading",
	Action:        "action",
	Character:     "character",
	Dialogue:      "dialogue",
	Parenthetical: "parenthetical",
	Transition:    "transition",
	CenteredText:  "centered_text",
	Boneyard:      "boneyard",
	PageBreak:     "page_break",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Element is one classified unit of screenplay content.
// Boneyard and PageBreak elements carry no runs.
type Element struct {
	Kind Kind
	Runs []Run
}

// Text returns the element text with emphasis markers removed.
func (e Element) Text() string { return PlainText(e.Runs) }

// StringSet keeps unique strings in first-seen order. Matching is exact and case-sensitive.
// The zero value is ready to use.
type StringSet struct {
	items []string
	seen  map[string]struct{}
}

// Add inserts v unless it is already present and reports whether it was added.
func (s *StringSet) Add(v string) bool {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *StringSet) Contains(v string) bool {
	_, ok := s.seen[v]
	return ok
}

func (s *StringSet) Len() int { return len(s.items) }

// Values returns the members in insertion order. The slice must not be modified.
func (s *StringSet) Values() []string { return s.items }

// Document is a parsed screenplay: body elements in document order, the title
// page details and the smart-type sets collected while classifying.
type Document struct {
	Elements []Element

	titlePage map[string][]Run
	titleKeys []string

	Characters  StringSet
	Extensions  StringSet
	SceneIntros StringSet
	Locations   StringSet
	TimesOfDay  StringSet
	Transitions StringSet
}

// TitleDetail returns the runs stored for a title page key such as "Title" or "Contact".
func (d *Document) TitleDetail(key string) ([]Run, bool) {
	runs, ok := d.titlePage[key]
	return runs, ok
}

// TitleKeys returns the title page keys in the order they first appeared.
func (d *Document) TitleKeys() []string { return d.titleKeys }

// SetTitleDetail stores runs under key, replacing an earlier value for the same key.
func (d *Document) SetTitleDetail(key string, runs []Run) {
	if d.titlePage == nil {
		d.titlePage = map[string][]Run{}
	}
	if _, ok := d.titlePage[key]; !ok {
		d.titleKeys = append(d.titleKeys, key)
	}
	d.titlePage[key] = runs
}

// Count returns the number of elements of kind k.
func (d *Document) Count(k Kind) int {
	n := 0
	for _, e := range d.Elements {
		if e.Kind == k {
			n++
		}
	}
	return n
}
