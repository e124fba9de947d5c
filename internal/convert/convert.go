/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package convert runs the file level pipeline around the screenplay core:
// load and decode a .fountain file, parse it, render FDX and write the
// result atomically.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fountainfdx/internal/fdx"
	"fountainfdx/internal/fountain"
	applog "fountainfdx/internal/log"
)

// Options selects the payload shape and page break handling.
type Options struct {
	FlatText   bool
	PageBreaks bool
}

// Result describes a finished conversion.
type Result struct {
	Input    string
	Output   string
	Bytes    int
	Elements int
	Document *fountain.Document
}

// ParseFile loads path and parses it.
func ParseFile(path string, opt Options) (*fountain.Document, error) {
	text, err := Load(path)
	if err != nil {
		return nil, err
	}
	var popts []fountain.Option
	if opt.FlatText {
		popts = append(popts, fountain.WithFlatText())
	}
	return fountain.Parse(text, popts...), nil
}

// Convert turns the screenplay at in into an FDX document at out. An empty
// out writes next to the input with the extension replaced.
func Convert(ctx context.Context, in, out string, opt Options) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("convert"), "convert")
	ctx = applog.WithFile(ctx, in)
	if out == "" {
		out = OutputPath(in, FDXExt)
	}
	start := time.Now()

	doc, err := ParseFile(in, opt)
	if err != nil {
		return Result{}, err
	}
	l.DebugContext(ctx, "parsed",
		slog.Int("elements", len(doc.Elements)),
		slog.Int("characters", doc.Characters.Len()),
		slog.Int("title_keys", len(doc.TitleKeys())))

	data := []byte(fdx.Render(doc, fdx.Options{PageBreaks: opt.PageBreaks}))
	if err := WriteFile(out, data); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", out, err)
	}
	l.InfoContext(ctx, "converted",
		slog.String("out", out),
		slog.Int("bytes", len(data)),
		slog.Duration("took", time.Since(start)))
	return Result{Input: in, Output: out, Bytes: len(data), Elements: len(doc.Elements), Document: doc}, nil
}
