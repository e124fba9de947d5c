/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsFountainAndOutputPath(t *testing.T) {
	if !IsFountain("a/b/pilot.fountain") || IsFountain("pilot.txt") || IsFountain("pilot.fountain.bak") {
		t.Fatalf("IsFountain mismatch")
	}
	cases := map[string]string{
		"pilot.fountain":        "pilot.fdx",
		"dir/my.draft.fountain": "dir/my.draft.fdx",
		"noext":                 "noext.fdx",
	}
	for in, want := range cases {
		if got := OutputPath(in, FDXExt); got != want {
			t.Fatalf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("café"), "café"},
		{"utf8 bom", []byte("\xEF\xBB\xBFTitle: X"), "Title: X"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'H', 0, 'i', 0}, "Hi"},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'H', 0, 'i'}, "Hi"},
		{"windows-1252", []byte("caf\xe9 \x93quoted\x94"), "café “quoted”"},
	}
	for _, c := range cases {
		got, err := Decode(c.in)
		if err != nil {
			t.Fatalf("%s: Decode error: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: Decode = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestLoadRejectsOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); !errors.Is(err, ErrNotFountain) {
		t.Fatalf("expected ErrNotFountain, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.fountain")); err == nil || errors.Is(err, ErrNotFountain) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.fdx")
	if err := WriteFile(p, []byte("first")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(p, []byte("second")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "second" {
		t.Fatalf("content = %q, %v", b, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "out.fdx")
	if err := WriteFile(p, []byte("x")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("no output expected, stat err = %v", err)
	}
}

func TestConvertEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "pilot.fountain")
	src := "Title: **PILOT**\n\nINT. KITCHEN - DAY\n\nBOB\nHi.\n"
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Convert(context.Background(), in, "", Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Output != filepath.Join(dir, "pilot.fdx") || res.Elements != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := os.ReadFile(res.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(b)
	for _, want := range []string{
		`<Paragraph Alignment="Left" Type="Scene Heading">`,
		`<Text Style="Bold">PILOT</Text>`,
		`<Character>BOB</Character>`,
		`<Location>KITCHEN</Location>`,
		`<TimeOfDay>DAY</TimeOfDay>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	if res.Bytes != len(b) {
		t.Fatalf("Bytes = %d, file has %d", res.Bytes, len(b))
	}
}

func TestConvertFlatTextAndExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.fountain")
	if err := os.WriteFile(in, []byte("Some **bold** action.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "custom.xml")
	if _, err := Convert(context.Background(), in, out, Options{FlatText: true}); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	b, _ := os.ReadFile(out)
	if !strings.Contains(string(b), "<Text>Some **bold** action.</Text>") {
		t.Fatalf("flat text not preserved:\n%s", b)
	}
}

func TestConvertUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.fountain")
	if err := os.WriteFile(in, []byte("Action.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Convert(context.Background(), in, filepath.Join(dir, "nope", "a.fdx"), Options{}); err == nil {
		t.Fatalf("expected write error")
	}
}
