/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"fountainfdx/internal/config"
	"fountainfdx/internal/convert"
	"fountainfdx/internal/crash"
	"fountainfdx/internal/export"
	applog "fountainfdx/internal/log"
	"fountainfdx/internal/storage"
	"fountainfdx/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "fountainfdx converts Fountain screenplays to Final Draft (.fdx)")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fountainfdx <in.fountain> [out.fdx]        Convert; output defaults to <in>.fdx")
	fmt.Fprintln(w, "  fountainfdx pdf <in.fountain> [out.pdf]    Write a PDF proof")
	fmt.Fprintln(w, "  fountainfdx outline <in.fountain> [out]    Write a JSON outline (default <in>.json)")
	fmt.Fprintln(w, "  fountainfdx search <text> [kind]           Search the library index")
	fmt.Fprintln(w, "  fountainfdx list [section]                 List indexed scripts, or smart-type values")
	fmt.Fprintln(w, "  fountainfdx version|-v|--version           Show version")
	fmt.Fprintln(w, "  fountainfdx help                           Show this help")
}

func main() {
	defer crash.Recover(strings.Join(os.Args[1:], " "))
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one command and returns the process exit code.
func run(args []string, out io.Writer) int {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}
	l.Debug("start", slog.Int("args", len(args)))
	ctx := context.Background()

	if len(args) == 0 {
		usage(out)
		return 0
	}
	switch args[0] {
	case "help", "-h", "--help":
		usage(out)
		return 0
	case "version", "--version", "-v":
		fmt.Fprintln(out, version.String())
		return 0
	case "pdf":
		if len(args) < 2 {
			fmt.Fprintln(out, "pdf requires <in.fountain>")
			usage(out)
			return 2
		}
		return runPDF(cfg, args[1], optArg(args, 2, convert.OutputPath(args[1], ".pdf")), out)
	case "outline":
		if len(args) < 2 {
			fmt.Fprintln(out, "outline requires <in.fountain>")
			usage(out)
			return 2
		}
		return runOutline(cfg, args[1], optArg(args, 2, convert.OutputPath(args[1], ".json")), out)
	case "search":
		if len(args) < 2 {
			fmt.Fprintln(out, "search requires <text>")
			usage(out)
			return 2
		}
		return runSearch(ctx, cfg, args[1], optArg(args, 2, ""), out)
	case "list":
		return runList(ctx, cfg, optArg(args, 1, ""), out)
	}
	return runConvert(ctx, cfg, args[0], optArg(args, 1, ""), out)
}

func optArg(args []string, i int, def string) string {
	if len(args) > i {
		return args[i]
	}
	return def
}

func fail(out io.Writer, l *slog.Logger, msg string, err error) int {
	l.Error(msg, slog.Any("err", err))
	fmt.Fprintln(out, "Error:", err)
	return 1
}

func convertOptions(cfg config.AppConfig) convert.Options {
	return convert.Options{FlatText: !cfg.Convert.Emphasis, PageBreaks: cfg.Convert.PageBreaks}
}

func runConvert(ctx context.Context, cfg config.AppConfig, in, outPath string, out io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "convert")
	if !convert.IsFountain(in) {
		fmt.Fprintf(out, "Error: %s: %v\n", in, convert.ErrNotFountain)
		return 1
	}
	res, err := convert.Convert(ctx, in, outPath, convertOptions(cfg))
	if err != nil {
		return fail(out, l, "convert failed", err)
	}
	fmt.Fprintf(out, "Wrote %s (%s, %d elements)\n", res.Output, humanize.Bytes(uint64(res.Bytes)), res.Elements)

	if cfg.Index.Enabled {
		ix, err := storage.OpenIndex(cfg.Index.Path)
		if err != nil {
			// The conversion itself succeeded.
			l.Warn("library index unavailable", slog.Any("err", err))
			return 0
		}
		defer ix.Close()
		if _, err := ix.Record(ctx, in, res.Document); err != nil {
			l.Warn("library index not updated", slog.Any("err", err))
		}
	}
	return 0
}

func runPDF(cfg config.AppConfig, in, outPath string, out io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "pdf")
	doc, err := convert.ParseFile(in, convertOptions(cfg))
	if err != nil {
		return fail(out, l, "load failed", err)
	}
	if err := export.WritePDF(doc, outPath, export.PDFOptions{Paper: cfg.PDF.Paper, FontSize: cfg.PDF.FontSize}); err != nil {
		return fail(out, l, "pdf export failed", err)
	}
	fmt.Fprintf(out, "Wrote %s%s\n", outPath, sizeSuffix(outPath))
	return 0
}

func runOutline(cfg config.AppConfig, in, outPath string, out io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "outline")
	doc, err := convert.ParseFile(in, convertOptions(cfg))
	if err != nil {
		return fail(out, l, "load failed", err)
	}
	if err := export.WriteOutline(doc, outPath); err != nil {
		return fail(out, l, "outline export failed", err)
	}
	fmt.Fprintf(out, "Wrote %s%s\n", outPath, sizeSuffix(outPath))
	return 0
}

func sizeSuffix(path string) string {
	st, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return " (" + humanize.Bytes(uint64(st.Size())) + ")"
}

var errNoIndex = errors.New("library index is empty; enable index.enabled and convert some scripts first")

func openExistingIndex(cfg config.AppConfig) (*storage.Index, error) {
	if _, err := os.Stat(cfg.Index.Path); err != nil {
		return nil, errNoIndex
	}
	return storage.OpenIndex(cfg.Index.Path)
}

func runSearch(ctx context.Context, cfg config.AppConfig, text, kind string, out io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "search")
	ix, err := openExistingIndex(cfg)
	if err != nil {
		return fail(out, l, "open index failed", err)
	}
	defer ix.Close()
	q := storage.SearchQuery{Text: storage.Phrase(text)}
	if kind != "" {
		q.Kinds = []string{kind}
	}
	res, err := ix.Search(ctx, q)
	if err != nil {
		return fail(out, l, "search failed", err)
	}
	for _, r := range res {
		fmt.Fprintf(out, "%s:%d [%s] %s\n", r.Path, r.Seq+1, r.Kind, r.Text)
	}
	fmt.Fprintf(out, "%s found\n", humanize.Comma(int64(len(res)))+pluralize(len(res), " match", " matches"))
	return 0
}

func runList(ctx context.Context, cfg config.AppConfig, section string, out io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "list")
	ix, err := openExistingIndex(cfg)
	if err != nil {
		return fail(out, l, "open index failed", err)
	}
	defer ix.Close()
	if section != "" {
		vals, err := ix.Values(ctx, section)
		if err != nil {
			return fail(out, l, "list values failed", err)
		}
		for _, v := range vals {
			fmt.Fprintln(out, v)
		}
		return 0
	}
	scripts, err := ix.Scripts(ctx)
	if err != nil {
		return fail(out, l, "list scripts failed", err)
	}
	for _, s := range scripts {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "%s  %s  %d elements  converted %s\n", s.Path, title, s.Elements, humanize.Time(s.ConvertedAt))
	}
	return 0
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
