/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"fountainfdx/internal/convert"
	"fountainfdx/internal/fdx"
	"fountainfdx/internal/fountain"
	"fountainfdx/internal/version"
)

// PDFOptions controls the screenplay proof.
// Units are inches. Text is set in the built-in Courier so nothing is embedded.
//
// Layout follows the usual manuscript format:
//   - 1.5in left margin, 1in on the other sides
//   - dialogue, parentheticals and cues indented from the action column
//   - transitions flush right, centred text centred between the margins
//
// The title page uses the same 60 row canvas as the FDX output.
type PDFOptions struct {
	Paper    string  // "Letter" (default) or "A4"
	FontSize float64 // points, default 12
}

// column is the horizontal band an element is set in, relative to the page.
type column struct {
	left, width float64
	align       string // "L", "C" or "R"
}

const (
	marginLeft   = 1.5
	marginRight  = 1.0
	marginTop    = 1.0
	marginBottom = 1.0
	textWidth    = 6.0
)

var columns = map[fountain.Kind]column{
	fountain.SceneHeading:  {marginLeft, textWidth, "L"},
	fountain.Action:        {marginLeft, textWidth, "L"},
	fountain.Character:     {marginLeft + 2.2, 3.3, "L"},
	fountain.Parenthetical: {marginLeft + 1.6, 2.0, "L"},
	fountain.Dialogue:      {marginLeft + 1.0, 3.5, "L"},
	fountain.Transition:    {marginLeft, textWidth, "R"},
	fountain.CenteredText:  {marginLeft, textWidth, "C"},
}

// WritePDF renders doc as a paginated screenplay proof at path.
func WritePDF(doc *fountain.Document, path string, opt PDFOptions) error {
	paper := opt.Paper
	if paper == "" {
		paper = "Letter"
	}
	size := opt.FontSize
	if size <= 0 {
		size = 12
	}
	lineH := size / 72

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "in",
		SizeStr:        paper,
		OrientationStr: "P",
	})
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetCreator("fountainfdx "+version.String(), true)
	if runs, ok := doc.TitleDetail("Title"); ok {
		pdf.SetTitle(fountain.PlainText(runs), true)
	}
	if runs, ok := doc.TitleDetail("Author"); ok {
		pdf.SetAuthor(fountain.PlainText(runs), true)
	}
	pdf.SetFont("Courier", "", size)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if placements := fdx.LayoutTitlePage(doc); len(placements) > 0 {
		writeTitlePagePDF(pdf, tr, placements, size)
	}

	pdf.AddPage()
	var prev fountain.Kind = -1
	for _, e := range doc.Elements {
		if e.Kind == fountain.PageBreak {
			pdf.AddPage()
			prev = -1
			continue
		}
		col, ok := columns[e.Kind]
		if !ok {
			continue
		}
		if prev != -1 && !continuesSpeech(prev, e.Kind) {
			pdf.Ln(lineH)
		}
		writeElement(pdf, tr, col, e.Runs, size, lineH)
		prev = e.Kind
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return convert.WriteFile(path, buf.Bytes())
}

// continuesSpeech reports whether next belongs to the same speech as prev
// and so follows without a blank line.
func continuesSpeech(prev, next fountain.Kind) bool {
	switch next {
	case fountain.Parenthetical, fountain.Dialogue:
		return prev == fountain.Character || prev == fountain.Parenthetical || prev == fountain.Dialogue
	}
	return false
}

func writeElement(pdf *gofpdf.Fpdf, tr func(string) string, col column, runs []fountain.Run, size, lineH float64) {
	pageW, _ := pdf.GetPageSize()
	pdf.SetLeftMargin(col.left)
	pdf.SetRightMargin(pageW - col.left - col.width)
	pdf.SetX(col.left)
	switch {
	case len(runs) == 0:
	case col.align != "L":
		// Aligned text is set as a single line in the first run's style.
		pdf.SetFont("Courier", pdfStyle(runs[0].Style), size)
		pdf.WriteAligned(0, lineH, tr(fountain.PlainText(runs)), col.align)
	default:
		for _, r := range runs {
			pdf.SetFont("Courier", pdfStyle(r.Style), size)
			pdf.Write(lineH, tr(r.Text))
		}
	}
	pdf.Ln(lineH)
	pdf.SetLeftMargin(marginLeft)
	pdf.SetRightMargin(marginRight)
}

func writeTitlePagePDF(pdf *gofpdf.Fpdf, tr func(string) string, ps []fdx.Placement, size float64) {
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()
	top := 0.5
	rowH := (pageH - 2*top) / fdx.CanvasRows
	pdf.SetAutoPageBreak(false, 0)
	for _, p := range ps {
		align := "C"
		switch p.Align {
		case fdx.AlignLeft:
			align = "L"
		case fdx.AlignRight:
			align = "R"
		}
		for i, line := range fdx.SplitLines(p.Runs) {
			row := p.Start + i
			if row < 0 || row >= fdx.CanvasRows || len(line) == 0 {
				continue
			}
			pdf.SetXY(marginLeft, top+float64(row)*rowH)
			pdf.SetFont("Courier", pdfStyle(line[0].Style), size)
			pdf.WriteAligned(0, rowH, tr(fountain.PlainText(line)), align)
		}
	}
	pdf.SetAutoPageBreak(true, marginBottom)
}

// pdfStyle maps emphasis flags to gofpdf's style letters.
func pdfStyle(s fountain.Style) string {
	var b strings.Builder
	if s.Has(fountain.Bold) {
		b.WriteByte('B')
	}
	if s.Has(fountain.Italic) {
		b.WriteByte('I')
	}
	if s.Has(fountain.Underline) {
		b.WriteByte('U')
	}
	return b.String()
}
