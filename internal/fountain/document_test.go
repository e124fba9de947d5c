/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"reflect"
	"testing"
)

func TestStringSetKeepsFirstOccurrenceOrder(t *testing.T) {
	var s StringSet
	for _, v := range []string{"BOB", "ALICE", "BOB"} {
		s.Add(v)
	}
	if got := s.Values(); !reflect.DeepEqual(got, []string{"BOB", "ALICE"}) {
		t.Fatalf("Values = %v", got)
	}
	if !s.Add("bob") {
		t.Fatalf("dedup must be case-sensitive")
	}
	if !s.Contains("ALICE") || s.Contains("CAROL") {
		t.Fatalf("Contains mismatch")
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestTitleDetailOverwriteKeepsKeyOrder(t *testing.T) {
	doc := Parse("Title: One\nCredit: by\nTitle: Two\n\nAction.\n")
	title, ok := doc.TitleDetail("Title")
	if !ok || PlainText(title) != "Two" {
		t.Fatalf("later duplicate key should win, got %+v", title)
	}
	if got := doc.TitleKeys(); !reflect.DeepEqual(got, []string{"Title", "Credit"}) {
		t.Fatalf("TitleKeys = %v", got)
	}
	if _, ok := doc.TitleDetail("Contact"); ok {
		t.Fatalf("missing key must report not found")
	}
}

func TestNoTitlePage(t *testing.T) {
	doc := Parse("\n\nINT. HOUSE - DAY\n\nText.\n")
	if len(doc.TitleKeys()) != 0 {
		t.Fatalf("expected no title page, got %v", doc.TitleKeys())
	}
	if len(doc.Elements) != 2 || doc.Elements[0].Kind != SceneHeading {
		t.Fatalf("unexpected elements: %+v", doc.Elements)
	}
}

func TestKindString(t *testing.T) {
	if SceneHeading.String() != "scene_heading" || PageBreak.String() != "page_break" {
		t.Fatalf("unexpected kind names")
	}
	if Kind(42).String() != "unknown" {
		t.Fatalf("out-of-range kind should be unknown")
	}
}

func TestDocumentCount(t *testing.T) {
	doc := Parse("BOB\nOne.\nTwo.\n")
	if doc.Count(Dialogue) != 2 || doc.Count(Character) != 1 || doc.Count(Action) != 0 {
		t.Fatalf("unexpected counts: %+v", kindsOf(doc))
	}
}
