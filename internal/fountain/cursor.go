/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Cursor is a read position over an immutable text buffer.
// Reads outside the buffer yield 0, which callers treat as "no more input".
// Only Mark/Reset move the position backwards.
type Cursor struct {
	buf string
	pos int
}

// Mark is a saved cursor position, restored with Reset.
type Mark int

// NewCursor returns a cursor positioned at the start of text.
func NewCursor(text string) *Cursor { return &Cursor{buf: text} }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// AtEnd reports whether the whole buffer has been consumed.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.buf) }

// Mark snapshots the current position.
func (c *Cursor) Mark() Mark { return Mark(c.pos) }

// Reset restores a position obtained from Mark.
func (c *Cursor) Reset(m Mark) { c.pos = c.clamp(int(m)) }

func (c *Cursor) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(c.buf) {
		return len(c.buf)
	}
	return i
}

// Peek returns the byte at pos+offset without consuming it.
func (c *Cursor) Peek(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.buf) {
		return 0
	}
	return c.buf[i]
}

// Consume returns the current byte and advances past it.
func (c *Cursor) Consume() byte {
	if c.pos >= len(c.buf) {
		return 0
	}
	ch := c.buf[c.pos]
	c.pos++
	return ch
}

// ConsumeN advances by n bytes, stopping at the end of the buffer.
func (c *Cursor) ConsumeN(n int) {
	if n <= 0 {
		return
	}
	c.pos = c.clamp(c.pos + n)
}

// ConsumeLine advances past the next '\n' (inclusive) or to the end of input.
func (c *Cursor) ConsumeLine() {
	for c.pos < len(c.buf) {
		if c.Consume() == '\n' {
			return
		}
	}
}

// ConsumeWhitespace skips spaces, tabs and line breaks.
func (c *Cursor) ConsumeWhitespace() {
	for isSpace(c.Peek(0)) {
		c.pos++
	}
}

// SkipBlanks skips spaces and tabs without leaving the current line.
func (c *Cursor) SkipBlanks() {
	for ch := c.Peek(0); ch == ' ' || ch == '\t'; ch = c.Peek(0) {
		c.pos++
	}
}

// LineIsEmpty reports whether the rest of the current line holds only whitespace.
func (c *Cursor) LineIsEmpty() bool {
	for i := c.pos; i < len(c.buf); i++ {
		switch c.buf[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

// LineIsIndented reports whether the line containing the cursor starts with
// a tab or at least three spaces.
func (c *Cursor) LineIsIndented() bool {
	start := c.lineStart()
	if start < len(c.buf) && c.buf[start] == '\t' {
		return true
	}
	return start+3 <= len(c.buf) && c.buf[start:start+3] == "   "
}

func (c *Cursor) lineStart() int {
	for i := c.pos - 1; i >= 0; i-- {
		if c.buf[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// LineIsAllCaps reports whether no lowercase ASCII letter occurs before the next '\n'.
func (c *Cursor) LineIsAllCaps() bool {
	for i := c.pos; i < len(c.buf) && c.buf[i] != '\n'; i++ {
		if ch := c.buf[i]; ch >= 'a' && ch <= 'z' {
			return false
		}
	}
	return true
}

// NextLineIsEmpty reports whether the line after the current one is blank.
// End of input counts as blank. The position is always restored.
func (c *Cursor) NextLineIsEmpty() bool {
	m := c.Mark()
	defer c.Reset(m)
	c.ConsumeLine()
	return c.LineIsEmpty()
}

// LineStartsWith reports whether the input at the cursor begins with prefix.
func (c *Cursor) LineStartsWith(prefix string) bool {
	return len(c.buf)-c.pos >= len(prefix) && c.buf[c.pos:c.pos+len(prefix)] == prefix
}

// LineEndsWith reports whether the current line, ignoring trailing whitespace,
// ends with suffix. The position is always restored.
func (c *Cursor) LineEndsWith(suffix string) bool {
	m := c.Mark()
	defer c.Reset(m)
	line := trimRightSpace(c.ReadLine())
	return len(line) >= len(suffix) && line[len(line)-len(suffix):] == suffix
}

// LineWrappedWith reports whether the current line starts with left and its
// last non-whitespace byte is right. A single byte line never matches.
func (c *Cursor) LineWrappedWith(left, right byte) bool {
	if c.Peek(0) != left {
		return false
	}
	line := trimRightSpace(c.Line())
	return len(line) > 1 && line[len(line)-1] == right
}

// Line returns the rest of the current line without consuming it.
// The line terminator ("\n" or "\r\n") is not included.
func (c *Cursor) Line() string {
	end := c.pos
	for end < len(c.buf) && c.buf[end] != '\n' {
		end++
	}
	line := c.buf[c.pos:end]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// ReadLine returns the rest of the current line and consumes it including its terminator.
func (c *Cursor) ReadLine() string {
	line := c.Line()
	c.ConsumeLine()
	return line
}

// ReadUntil returns the text up to delim on the current line and leaves the
// cursor on delim. Without delim the rest of the line is returned.
func (c *Cursor) ReadUntil(delim byte) string {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != delim && c.buf[c.pos] != '\n' {
		c.pos++
	}
	return c.buf[start:c.pos]
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func trimRightSpace(s string) string {
	for len(s) > 0 && isSpace(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func trimLeftSpace(s string) string {
	for len(s) > 0 && isSpace(s[0]) {
		s = s[1:]
	}
	return s
}
