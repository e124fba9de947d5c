/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const script = `Title: Pilot

INT. KITCHEN - DAY

BOB
Coffee?
`

func setup(t *testing.T) (dir, in string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("FFDX_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("FFDX_INDEX", "")
	t.Setenv("FFDX_INDEX_PATH", filepath.Join(dir, "library.sqlite"))
	t.Setenv("FFDX_LOG_LEVEL", "error")
	in = filepath.Join(dir, "pilot.fountain")
	if err := os.WriteFile(in, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, in
}

func TestHelpAndNoArgs(t *testing.T) {
	setup(t)
	for _, args := range [][]string{nil, {"help"}, {"--help"}} {
		var out bytes.Buffer
		if code := run(args, &out); code != 0 {
			t.Fatalf("run(%v) = %d", args, code)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Fatalf("usage missing for %v", args)
		}
	}
}

func TestVersion(t *testing.T) {
	setup(t)
	var out bytes.Buffer
	if code := run([]string{"version"}, &out); code != 0 || strings.TrimSpace(out.String()) == "" {
		t.Fatalf("version: code=%d out=%q", code, out.String())
	}
}

func TestConvertDefaultOutput(t *testing.T) {
	dir, in := setup(t)
	var out bytes.Buffer
	if code := run([]string{in}, &out); code != 0 {
		t.Fatalf("exit %d: %s", code, out.String())
	}
	b, err := os.ReadFile(filepath.Join(dir, "pilot.fdx"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.Contains(string(b), "<Character>BOB</Character>") {
		t.Fatalf("unexpected output:\n%s", b)
	}
	if _, err := os.Stat(filepath.Join(dir, "library.sqlite")); err == nil {
		t.Fatalf("index must not be written while disabled")
	}
}

func TestConvertExplicitOutput(t *testing.T) {
	dir, in := setup(t)
	dst := filepath.Join(dir, "elsewhere.fdx")
	var out bytes.Buffer
	if code := run([]string{in, dst}, &out); code != 0 {
		t.Fatalf("exit %d: %s", code, out.String())
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("explicit output missing: %v", err)
	}
}

func TestConvertRejectsOtherExtensions(t *testing.T) {
	dir, _ := setup(t)
	txt := filepath.Join(dir, "notes.txt")
	_ = os.WriteFile(txt, []byte("x"), 0o644)
	var out bytes.Buffer
	if code := run([]string{txt}, &out); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "not a .fountain file") {
		t.Fatalf("error message missing: %q", out.String())
	}
}

func TestConvertMissingInput(t *testing.T) {
	dir, _ := setup(t)
	var out bytes.Buffer
	if code := run([]string{filepath.Join(dir, "nope.fountain")}, &out); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
}

func TestPDFAndOutline(t *testing.T) {
	dir, in := setup(t)
	var out bytes.Buffer
	if code := run([]string{"pdf", in}, &out); code != 0 {
		t.Fatalf("pdf exit %d: %s", code, out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "pilot.pdf")); err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
	if code := run([]string{"outline", in}, &out); code != 0 {
		t.Fatalf("outline exit %d: %s", code, out.String())
	}
	b, err := os.ReadFile(filepath.Join(dir, "pilot.json"))
	if err != nil || !strings.Contains(string(b), `"KITCHEN"`) {
		t.Fatalf("outline missing or wrong: %v\n%s", err, b)
	}
	if code := run([]string{"pdf"}, &out); code != 2 {
		t.Fatalf("pdf without input exit = %d, want 2", code)
	}
}

func TestIndexSearchAndList(t *testing.T) {
	_, in := setup(t)
	var out bytes.Buffer
	if code := run([]string{"search", "coffee"}, &out); code != 1 {
		t.Fatalf("search without index exit = %d, want 1", code)
	}

	t.Setenv("FFDX_INDEX", "true")
	if code := run([]string{in}, &out); code != 0 {
		t.Fatalf("convert exit %d: %s", code, out.String())
	}

	out.Reset()
	if code := run([]string{"search", "coffee", "dialogue"}, &out); code != 0 {
		t.Fatalf("search exit %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "[dialogue] Coffee?") || !strings.Contains(out.String(), "1 match found") {
		t.Fatalf("unexpected search output: %q", out.String())
	}

	out.Reset()
	if code := run([]string{"list"}, &out); code != 0 || !strings.Contains(out.String(), "Pilot") {
		t.Fatalf("list: code=%d out=%q", code, out.String())
	}
	out.Reset()
	if code := run([]string{"list", "characters"}, &out); code != 0 || strings.TrimSpace(out.String()) != "BOB" {
		t.Fatalf("list characters: code=%d out=%q", code, out.String())
	}
}
