/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"fountainfdx/internal/convert"
	"fountainfdx/internal/fountain"
)

//go:embed outline.schema.json
var outlineSchema []byte

// OutlineVersion is written to every outline.
const OutlineVersion = 1

// Outline is a JSON summary of a screenplay: its title page, scenes and who speaks.
type Outline struct {
	Version    int              `json:"version"`
	Title      string           `json:"title,omitempty"`
	TitlePage  []TitleDetail    `json:"title_page"`
	Scenes     []Scene          `json:"scenes"`
	Characters []CharacterStats `json:"characters"`
	Counts     map[string]int   `json:"counts"`
}

type TitleDetail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Scene groups the elements from one scene heading up to the next. Content
// before the first heading lands in scene 0, headed "Untitled".
type Scene struct {
	Number     int      `json:"number"`
	Heading    string   `json:"heading"`
	Location   string   `json:"location,omitempty"`
	TimeOfDay  string   `json:"time_of_day,omitempty"`
	Elements   int      `json:"elements"`
	Characters []string `json:"characters"`
}

// CharacterStats counts the speeches (cues) of one character.
type CharacterStats struct {
	Name     string `json:"name"`
	Speeches int    `json:"speeches"`
}

// BuildOutline summarises doc.
func BuildOutline(doc *fountain.Document) Outline {
	o := Outline{
		Version:    OutlineVersion,
		TitlePage:  []TitleDetail{},
		Scenes:     []Scene{},
		Characters: []CharacterStats{},
		Counts:     map[string]int{},
	}
	for _, k := range doc.TitleKeys() {
		if strings.TrimSpace(k) == "" {
			continue
		}
		runs, _ := doc.TitleDetail(k)
		o.TitlePage = append(o.TitlePage, TitleDetail{Key: k, Value: fountain.PlainText(runs)})
	}
	if runs, ok := doc.TitleDetail("Title"); ok {
		o.Title = strings.ReplaceAll(fountain.PlainText(runs), "\n", " ")
	}

	speeches := map[string]int{}
	var order []string
	var (
		cur      *Scene
		cast     fountain.StringSet
		headings int
	)
	closeScene := func() {
		if cur != nil {
			cur.Characters = append([]string{}, cast.Values()...)
			o.Scenes = append(o.Scenes, *cur)
		}
		cast = fountain.StringSet{}
	}
	for _, e := range doc.Elements {
		o.Counts[e.Kind.String()]++
		switch e.Kind {
		case fountain.SceneHeading:
			closeScene()
			heading := e.Text()
			if strings.TrimSpace(heading) == "" {
				heading = "Untitled"
			}
			_, loc, tod := fountain.SplitSceneHeading(heading, false)
			headings++
			cur = &Scene{Number: headings, Heading: heading, Location: loc, TimeOfDay: tod}
			continue
		case fountain.Boneyard, fountain.PageBreak:
			continue
		}
		if cur == nil {
			cur = &Scene{Number: 0, Heading: "Untitled"}
		}
		cur.Elements++
		if e.Kind == fountain.Character {
			name := fountain.CueName(e.Text())
			if name == "" {
				continue
			}
			cast.Add(name)
			if _, seen := speeches[name]; !seen {
				order = append(order, name)
			}
			speeches[name]++
		}
	}
	closeScene()
	for _, name := range order {
		o.Characters = append(o.Characters, CharacterStats{Name: name, Speeches: speeches[name]})
	}
	return o
}

// ValidateOutline checks data against the embedded outline schema.
func ValidateOutline(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(outlineSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []error
	for _, e := range result.Errors() {
		errs = append(errs, errors.New(e.String()))
	}
	return fmt.Errorf("outline does not conform to schema: %w", errors.Join(errs...))
}

// MarshalOutline returns the indented, schema checked JSON for doc.
func MarshalOutline(doc *fountain.Document) ([]byte, error) {
	data, err := json.MarshalIndent(BuildOutline(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal outline: %w", err)
	}
	data = append(data, '\n')
	if err := ValidateOutline(data); err != nil {
		return nil, err
	}
	return data, nil
}

// WriteOutline writes the outline of doc to path.
func WriteOutline(doc *fountain.Document, path string) error {
	data, err := MarshalOutline(doc)
	if err != nil {
		return err
	}
	return convert.WriteFile(path, data)
}
