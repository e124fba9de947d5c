/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// parseTitlePage reads "Key: value" details until the first blank line or the
// first line without a colon. A key with nothing after the colon takes the
// following indented lines as its value, joined with "\n".
func (p *Parser) parseTitlePage() {
	c := p.cur
	c.ConsumeWhitespace()

	for !c.AtEnd() && !c.LineIsEmpty() {
		key, ok := p.readTitleKey()
		if !ok {
			// no title page
			break
		}

		var value string
		if c.LineIsEmpty() {
			c.ConsumeLine()
			var lines []string
			for !c.AtEnd() && c.LineIsIndented() && !c.LineIsEmpty() {
				c.SkipBlanks()
				lines = append(lines, c.ReadLine())
			}
			value = strings.Join(lines, "\n")
		} else {
			c.SkipBlanks()
			value = c.ReadLine()
		}
		p.doc.SetTitleDetail(key, p.runs(value))
	}
}

// readTitleKey consumes "Key:" from the current line. It consumes nothing when
// the line has no colon.
func (p *Parser) readTitleKey() (string, bool) {
	line := p.cur.Line()
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", false
	}
	p.cur.ConsumeN(i + 1)
	return strings.TrimSpace(line[:i]), true
}
