/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fdx renders a parsed screenplay as a Final Draft (FDX) XML document.
// The document frame is fixed; the body paragraphs, the 60 row title page and
// the smart-type lists are generated from the fountain.Document.
package fdx

import (
	"io"
	"strings"

	"fountainfdx/internal/fountain"
)

// Options controls rendering.
type Options struct {
	// PageBreaks marks the paragraph after each "===" with StartsNewPage="Yes".
	// When false page breaks are dropped.
	PageBreaks bool
}

const (
	documentStart = `<?xml version="1.0" encoding="UTF-8" standalone="no" ?>
<FinalDraft DocumentType="Script" Template="No" Version="5">

  <Content>
`
	contentEnd = `  </Content>

  <TitlePage>
    <Content>
`
	titlePageEnd = `    </Content>
  </TitlePage>

  <SmartType>
`
	documentEnd = `  </SmartType>

</FinalDraft>
`
	emptyTitleRow = "      <Paragraph Alignment=\"Left\">\n        <Text></Text>\n      </Paragraph>\n"
)

// Render returns the complete FDX document for doc.
func Render(doc *fountain.Document, opt Options) string {
	var b strings.Builder
	b.Grow(4096 + 128*len(doc.Elements))
	b.WriteString(documentStart)
	writeContent(&b, doc, opt)
	b.WriteString(contentEnd)
	writeTitlePage(&b, LayoutTitlePage(doc))
	b.WriteString(titlePageEnd)
	writeSmartType(&b, doc)
	b.WriteString(documentEnd)
	return b.String()
}

// Write renders doc to w.
func Write(w io.Writer, doc *fountain.Document, opt Options) error {
	_, err := io.WriteString(w, Render(doc, opt))
	return err
}

// ParagraphType maps an element kind to its FDX paragraph type and alignment.
// ok is false for kinds that are not emitted as paragraphs.
func ParagraphType(k fountain.Kind) (typ, align string, ok bool) {
	switch k {
	case fountain.SceneHeading:
		return "Scene Heading", AlignLeft, true
	case fountain.Action:
		return "Action", AlignLeft, true
	case fountain.Character:
		return "Character", AlignLeft, true
	case fountain.Dialogue:
		return "Dialogue", AlignLeft, true
	case fountain.Parenthetical:
		return "Parenthetical", AlignLeft, true
	case fountain.Transition:
		return "Transition", AlignRight, true
	case fountain.CenteredText:
		return "General", AlignCenter, true
	}
	return "", "", false
}

func writeContent(b *strings.Builder, doc *fountain.Document, opt Options) {
	newPage := false
	for _, e := range doc.Elements {
		if e.Kind == fountain.PageBreak {
			newPage = opt.PageBreaks
			continue
		}
		typ, align, ok := ParagraphType(e.Kind)
		if !ok {
			continue
		}
		b.WriteString(`    <Paragraph Alignment="`)
		b.WriteString(align)
		b.WriteString(`"`)
		if newPage {
			b.WriteString(` StartsNewPage="Yes"`)
			newPage = false
		}
		b.WriteString(` Type="`)
		b.WriteString(typ)
		b.WriteString("\">\n")
		for _, r := range e.Runs {
			writeText(b, "      ", r)
		}
		b.WriteString("    </Paragraph>\n")
	}
}

func writeText(b *strings.Builder, indent string, r fountain.Run) {
	b.WriteString(indent)
	if s := r.Style.String(); s != "" {
		b.WriteString(`<Text Style="`)
		b.WriteString(s)
		b.WriteString(`">`)
	} else {
		b.WriteString("<Text>")
	}
	b.WriteString(Escape(r.Text))
	b.WriteString("</Text>\n")
}

// writeTitlePage fills the canvas row by row. Each placement writes one
// paragraph per line; rows no block covers get an empty paragraph. A block
// starting inside an earlier one is written directly after it.
func writeTitlePage(b *strings.Builder, ps []Placement) {
	row := 0
	for _, p := range rowOrder(ps) {
		for ; row < p.Start; row++ {
			b.WriteString(emptyTitleRow)
		}
		writeBlock(b, p)
		row = max(row, p.Start) + p.Height
	}
	for ; row < CanvasRows; row++ {
		b.WriteString(emptyTitleRow)
	}
}

func writeBlock(b *strings.Builder, p Placement) {
	for _, line := range SplitLines(p.Runs) {
		b.WriteString(`      <Paragraph Alignment="`)
		b.WriteString(p.Align)
		b.WriteString("\">\n")
		for _, r := range line {
			writeText(b, "        ", r)
		}
		b.WriteString("      </Paragraph>\n")
	}
}
