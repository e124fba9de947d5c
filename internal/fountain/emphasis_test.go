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

func TestTokenizeMixedEmphasis(t *testing.T) {
	var st Style
	got := Tokenize("*italic* and **bold** and _under_", &st)
	want := []Run{
		{Style: Italic, Text: "italic"},
		{Text: " and "},
		{Style: Bold, Text: "bold"},
		{Text: " and "},
		{Style: Underline, Text: "under"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize runs = %+v, want %+v", got, want)
	}
	if PlainText(got) != "italic and bold and under" {
		t.Fatalf("plain text mismatch: %q", PlainText(got))
	}
	if st != 0 {
		t.Fatalf("all markers closed, state should be empty, got %v", st)
	}
}

func TestTokenizeNestedFlagsAccumulate(t *testing.T) {
	var st Style
	got := Tokenize("**_x_**", &st)
	want := []Run{{Style: Bold | Underline, Text: "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("runs = %+v, want %+v", got, want)
	}
}

func TestTokenizeCarriesStateAcrossLines(t *testing.T) {
	var st Style
	first := Tokenize("start **bold", &st)
	if st != Bold {
		t.Fatalf("expected bold to stay open, got %v", st)
	}
	if len(first) != 2 || first[1].Style != Bold || first[1].Text != "bold" {
		t.Fatalf("unexpected first line runs: %+v", first)
	}
	second := Tokenize("still bold** plain", &st)
	want := []Run{{Style: Bold, Text: "still bold"}, {Text: " plain"}}
	if !reflect.DeepEqual(second, want) {
		t.Fatalf("second line runs = %+v, want %+v", second, want)
	}
}

func TestTokenizeEmptyLineKeepsOneRun(t *testing.T) {
	st := Italic
	got := Tokenize("", &st)
	if len(got) != 1 || got[0].Text != "" || got[0].Style != Italic {
		t.Fatalf("expected a single empty italic run, got %+v", got)
	}
	got = Tokenize("**", &st)
	if len(got) != 1 || got[0].Style != Italic|Bold {
		t.Fatalf("expected a single empty run after toggle, got %+v", got)
	}
}

func TestStyleString(t *testing.T) {
	cases := map[Style]string{
		0:                         "",
		Bold:                      "Bold",
		Italic | Underline:        "Italic+Underline",
		Bold | Italic | Underline: "Bold+Italic+Underline",
	}
	for st, want := range cases {
		if got := st.String(); got != want {
			t.Fatalf("Style(%d).String() = %q, want %q", st, got, want)
		}
	}
}
