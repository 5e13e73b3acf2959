/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
	"unicode"
)

// splitSQLStatements splits a migration into statements on top-level
// semicolons. Comments are dropped; quoted strings and dollar-quoted bodies
// are kept intact.
func splitSQLStatements(content string) []string {
	sp := &statementSplitter{src: content}
	return sp.split()
}

type statementSplitter struct {
	src string
	out []string
	cur strings.Builder

	single, double bool
	dollarTag      string
}

func (sp *statementSplitter) split() []string {
	for i := 0; i < len(sp.src); i++ {
		i = sp.step(i)
	}

	sp.flush()

	return sp.out
}

// step consumes the input at i and returns the last index it used.
func (sp *statementSplitter) step(i int) int {
	rest := sp.src[i:]
	ch := sp.src[i]

	if sp.dollarTag != "" {
		if strings.HasPrefix(rest, sp.dollarTag) {
			sp.cur.WriteString(sp.dollarTag)
			end := i + len(sp.dollarTag) - 1
			sp.dollarTag = ""

			return end
		}

		sp.cur.WriteByte(ch)

		return i
	}

	quoted := sp.single || sp.double

	switch {
	case !quoted && strings.HasPrefix(rest, "--"):
		end := strings.IndexByte(rest, '\n')
		if end < 0 {
			return len(sp.src) - 1
		}

		sp.cur.WriteByte('\n')

		return i + end
	case !quoted && strings.HasPrefix(rest, "/*"):
		end := strings.Index(rest[2:], "*/")
		if end < 0 {
			return len(sp.src) - 1
		}

		return i + 2 + end + 1
	case !quoted && ch == '$':
		if tag := dollarTag(rest); tag != "" {
			sp.dollarTag = tag
			sp.cur.WriteString(tag)

			return i + len(tag) - 1
		}
	case ch == '\'' && !sp.double:
		sp.single = !sp.single
	case ch == '"' && !sp.single:
		sp.double = !sp.double
	case ch == ';' && !quoted:
		sp.flush()
		return i
	}

	sp.cur.WriteByte(ch)

	return i
}

func (sp *statementSplitter) flush() {
	if stmt := strings.TrimSpace(sp.cur.String()); stmt != "" {
		sp.out = append(sp.out, stmt)
	}

	sp.cur.Reset()
}

// dollarTag returns the opening tag ($$ or $name$) at the start of s.
func dollarTag(s string) string {
	for i := 1; i < len(s); i++ {
		if s[i] == '$' {
			return s[:i+1]
		}

		r := rune(s[i])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ""
		}
	}

	return ""
}
