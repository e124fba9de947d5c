/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain parses Fountain screenplay markup into typed elements
// with emphasis runs, a title page and the smart-type sets Final Draft uses.
// It does no I/O and never fails.
package fountain

import "strings"

// Parse classifies Fountain screenplay text into a Document.
//
// The title page (if any) is read first, then every remaining line is
// assigned one element kind by a fixed priority order:
//   - page break ("===")
//   - boneyard ("/* ... */", may span lines)
//   - centered text ("> ... <")
//   - parenthetical ("( ... )" after a character, parenthetical or dialogue)
//   - dialogue (after a character or parenthetical, or continuing dialogue)
//   - transition ("> ..." or an all-caps line ending in "TO:" between blank lines)
//   - scene heading (INT./EXT./EST./INT/EXT./I/E. or forced ".", all caps between blank lines)
//   - character (after a blank line, followed by text, no lowercase unless "@" forced)
//   - action (everything else, or forced with "!")
//
// Input is never rejected; anything unrecognised becomes action.
func Parse(text string, opts ...Option) *Document {
	p := newParser(text, opts...)
	p.parseTitlePage()
	p.parseBody()
	return p.doc
}

// Option configures the parser.
type Option func(*Parser)

// WithFlatText stores each element as a single unstyled run holding the raw
// line, markers included.
func WithFlatText() Option { return func(p *Parser) { p.flat = true } }

// Parser holds the running state of one parse. It is not reusable.
type Parser struct {
	cur  *Cursor
	doc  *Document
	flat bool

	// emphasis carries open markers across lines and elements.
	emphasis Style
	// prevLineEmpty is true when a blank line preceded the current one.
	prevLineEmpty bool
}

func newParser(text string, opts ...Option) *Parser {
	p := &Parser{cur: NewCursor(text), doc: &Document{}}
	for _, o := range opts {
		o(p)
	}
	return p
}

// lineContext is what the classifier knows about the line at the cursor.
type lineContext struct {
	prevEmpty bool
	nextEmpty bool
	allCaps   bool
}

func (p *Parser) probe() lineContext {
	return lineContext{
		prevEmpty: p.prevLineEmpty,
		nextEmpty: p.cur.NextLineIsEmpty(),
		allCaps:   p.cur.LineIsAllCaps(),
	}
}

func (p *Parser) parseBody() {
	c := p.cur
	p.prevLineEmpty = true
	for !c.AtEnd() {
		if c.LineIsEmpty() {
			p.prevLineEmpty = true
		}
		c.ConsumeWhitespace()
		if c.AtEnd() {
			return
		}
		if c.Peek(0) == '!' {
			c.Consume()
			p.emit(Action, c.ReadLine())
			continue
		}
		p.classify(p.probe())
	}
}

func (p *Parser) classify(ctx lineContext) {
	c := p.cur
	switch {
	case c.LineStartsWith("==="):
		p.doc.Elements = append(p.doc.Elements, Element{Kind: PageBreak})
		c.ConsumeLine()
		p.prevLineEmpty = true

	case c.LineStartsWith("/*"):
		p.doc.Elements = append(p.doc.Elements, Element{Kind: Boneyard})
		p.skipBoneyard()

	case c.LineWrappedWith('>', '<'):
		c.Consume()
		c.SkipBlanks()
		text := trimRightSpace(c.ReadUntil('<'))
		c.ConsumeLine()
		p.emit(CenteredText, text)

	case p.isParenthetical():
		p.emit(Parenthetical, c.ReadLine())

	case p.isDialogue(ctx):
		p.emit(Dialogue, c.ReadLine())

	case p.isTransition(ctx):
		text := c.ReadLine()
		p.emit(Transition, text)
		p.doc.Transitions.Add(text)
		p.consumeBlankLine()

	case p.isSceneHeading(ctx):
		forced := c.Peek(0) == '.'
		if forced {
			c.Consume()
		}
		text := c.ReadLine()
		p.emit(SceneHeading, text)
		p.addSceneDetails(text, forced)
		p.consumeBlankLine()

	case p.isCharacter(ctx):
		if c.Peek(0) == '@' {
			c.Consume()
		}
		text := c.ReadLine()
		p.emit(Character, text)
		if name := CueName(text); name != "" {
			p.doc.Characters.Add(name)
		}
		if ext := CueExtension(text); ext != "" {
			p.doc.Extensions.Add(ext)
		}

	default:
		p.emit(Action, c.ReadLine())
	}
}

// emit appends an element built from text and clears prevLineEmpty.
func (p *Parser) emit(k Kind, text string) {
	p.doc.Elements = append(p.doc.Elements, Element{Kind: k, Runs: p.runs(text)})
	p.prevLineEmpty = false
}

func (p *Parser) runs(text string) []Run {
	if p.flat {
		return []Run{{Text: text}}
	}
	return Tokenize(text, &p.emphasis)
}

// consumeBlankLine swallows the blank line that follows a transition or scene
// heading. The next element still counts as preceded by a blank line.
func (p *Parser) consumeBlankLine() {
	if p.cur.AtEnd() || !p.cur.LineIsEmpty() {
		return
	}
	p.cur.ConsumeLine()
	p.prevLineEmpty = true
}

// skipBoneyard consumes through the closing "*/", or to the end of input.
func (p *Parser) skipBoneyard() {
	c := p.cur
	for !c.AtEnd() {
		if c.Peek(0) == '*' && c.Peek(1) == '/' {
			c.ConsumeN(2)
			return
		}
		c.Consume()
	}
}

func (p *Parser) lastKind() (Kind, bool) {
	n := len(p.doc.Elements)
	if n == 0 {
		return 0, false
	}
	return p.doc.Elements[n-1].Kind, true
}

func (p *Parser) isParenthetical() bool {
	k, ok := p.lastKind()
	if !ok {
		return false
	}
	if k != Character && k != Parenthetical && k != Dialogue {
		return false
	}
	return p.cur.LineWrappedWith('(', ')')
}

func (p *Parser) isDialogue(ctx lineContext) bool {
	k, ok := p.lastKind()
	if !ok {
		return false
	}
	switch k {
	case Character, Parenthetical:
		return true
	case Dialogue:
		return !ctx.prevEmpty
	}
	return false
}

func (p *Parser) isTransition(ctx lineContext) bool {
	c := p.cur
	// "> x <" was taken as centered text already
	if c.Peek(0) == '>' {
		c.Consume()
		c.SkipBlanks()
		return true
	}
	if !ctx.prevEmpty || !ctx.nextEmpty || !ctx.allCaps {
		return false
	}
	return c.LineEndsWith("TO:")
}

var sceneHeadingPrefixes = []string{"EXT.", "INT.", "EST.", "INT/EXT.", "I/E."}

// sceneIntroPrefixes are stripped from headings before the location is read;
// "INT./EXT." must be tried before "INT.".
var sceneIntroPrefixes = []string{"INT./EXT.", "INT/EXT.", "INT.", "EXT.", "EST.", "I/E."}

func (p *Parser) isSceneHeading(ctx lineContext) bool {
	if !ctx.prevEmpty || !ctx.allCaps || !ctx.nextEmpty {
		return false
	}
	c := p.cur
	if c.Peek(0) == '.' && c.Peek(1) != '.' {
		return true
	}
	for _, prefix := range sceneHeadingPrefixes {
		if c.LineStartsWith(prefix) {
			return true
		}
	}
	return false
}

// addSceneDetails records the scene intro, location and time of day of a
// heading. Standard intros are stripped but not recorded; a forced heading
// records a leading token ending in "." as its intro.
func (p *Parser) addSceneDetails(line string, forced bool) {
	intro, location, timeOfDay := SplitSceneHeading(line, forced)
	if intro != "" {
		p.doc.SceneIntros.Add(intro)
	}
	if location != "" {
		p.doc.Locations.Add(location)
	}
	if timeOfDay != "" {
		p.doc.TimesOfDay.Add(timeOfDay)
	}
}

// SplitSceneHeading breaks a heading line into intro, location and time of day.
// For "INT. KITCHEN - DAY" it returns "", "KITCHEN", "DAY".
func SplitSceneHeading(line string, forced bool) (intro, location, timeOfDay string) {
	rest := line
	if forced {
		if i := strings.IndexAny(rest, " \t"); i > 0 && rest[i-1] == '.' && rest[:i] != "." {
			intro = rest[:i]
			rest = rest[i:]
		}
	} else {
		for _, prefix := range sceneIntroPrefixes {
			if strings.HasPrefix(rest, prefix) {
				rest = rest[len(prefix):]
				break
			}
		}
	}

	rest = trimLeftSpace(rest)
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		location = trimRightSpace(rest[:i])
		timeOfDay = trimRightSpace(trimLeftSpace(rest[i+1:]))
	} else {
		location = trimRightSpace(rest)
	}
	return intro, location, timeOfDay
}

func (p *Parser) isCharacter(ctx lineContext) bool {
	if !ctx.prevEmpty || ctx.nextEmpty {
		return false
	}
	c := p.cur
	off := 0
	allowLower := c.Peek(0) == '@'
	if allowLower {
		off = 1
	}
	found := false
	for ch := c.Peek(off); ch != 0 && ch != '\n' && ch != '('; ch = c.Peek(off) {
		switch {
		case ch >= 'A' && ch <= 'Z':
			found = true
		case ch >= 'a' && ch <= 'z':
			if !allowLower {
				return false
			}
			found = true
		}
		off++
	}
	return found
}

// CueName returns the character name of a cue line: everything before a
// parenthetical extension, trimmed. A leading "@" is dropped.
func CueName(line string) string {
	line = strings.TrimPrefix(line, "@")
	if i := strings.IndexByte(line, '('); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// CueExtension returns the text of a cue's parenthetical extension such as
// "V.O." in "BOB (V.O.)", or "" when there is none.
func CueExtension(line string) string {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return ""
	}
	rest := line[open+1:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
