/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"strings"
	"testing"
)

func TestWriteReportCreatesFileInReportDir(t *testing.T) {
	dir := t.TempDir()
	old := reportDir
	reportDir = func() string { return dir }
	defer func() { reportDir = old }()

	path, err := writeReport("scripts/pilot.fountain", "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("report written outside report dir: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "fountainfdx Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Input: scripts/pilot.fountain") {
		t.Fatalf("input line missing: %s", s)
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportWithoutInput(t *testing.T) {
	dir := t.TempDir()
	old := reportDir
	reportDir = func() string { return dir }
	defer func() { reportDir = old }()

	path, err := writeReport("", 42, nil)
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "Input:") {
		t.Fatalf("unexpected input line: %s", b)
	}
	if !strings.Contains(string(b), "Panic: 42") {
		t.Fatalf("panic content missing: %s", b)
	}
}
