/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fdx

import (
	"strings"

	"fountainfdx/internal/fountain"
)

// smartSection describes one SmartType list and the values Final Draft ships
// with, used when the screenplay contributes none.
type smartSection struct {
	container string
	item      string
	defaults  []string
}

var (
	charactersSection  = smartSection{container: "Characters", item: "Character"}
	extensionsSection  = smartSection{container: "Extensions", item: "Extension", defaults: []string{"V.O.", "O.S.", "O.C.", "CONT'D"}}
	sceneIntrosSection = smartSection{container: "SceneIntros", item: "SceneIntro", defaults: []string{"INT.", "EXT.", "INT./EXT.", "EXT./INT.", "I/E.", "EST."}}
	locationsSection   = smartSection{container: "Locations", item: "Location"}
	timesOfDaySection  = smartSection{container: "TimesOfDay", item: "TimeOfDay", defaults: []string{
		"DAY", "NIGHT", "AFTERNOON", "MORNING", "EVENING", "LATER", "MOMENTS LATER", "CONTINUOUS", "THE NEXT DAY",
	}}
	transitionsSection = smartSection{container: "Transitions", item: "Transition", defaults: []string{
		"CUT TO:", "FADE IN:", "FADE OUT.", "FADE TO:", "DISSOLVE TO:", "BACK TO:", "MATCH CUT TO:", "JUMP CUT TO:", "FADE TO BLACK.",
	}}
)

func writeSmartType(b *strings.Builder, doc *fountain.Document) {
	writeSection(b, charactersSection, doc.Characters.Values())
	writeSection(b, extensionsSection, doc.Extensions.Values())
	writeSection(b, sceneIntrosSection, doc.SceneIntros.Values())
	writeSection(b, locationsSection, doc.Locations.Values())
	writeSection(b, timesOfDaySection, doc.TimesOfDay.Values())
	writeSection(b, transitionsSection, doc.Transitions.Values())
}

// writeSection emits one element per value in order, or the defaults when values is empty.
func writeSection(b *strings.Builder, s smartSection, values []string) {
	if len(values) == 0 {
		values = s.defaults
	}
	b.WriteString("    <" + s.container + ">\n")
	for _, v := range values {
		b.WriteString("      <" + s.item + ">")
		b.WriteString(Escape(v))
		b.WriteString("</" + s.item + ">\n")
	}
	b.WriteString("    </" + s.container + ">\n")
}
