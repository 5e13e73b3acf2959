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

package bot

import (
	"errors"
	"strings"
	"unicode"
)

var (
	errNotCommand        = errors.New("message is not a command")
	errUnterminatedQuote = errors.New("unterminated quote")
)

// parseCommand splits "/name@bot arg1 \"arg two\"" into its lower-cased
// command name and arguments.
func parseCommand(text string) (string, []string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, errNotCommand
	}

	fields, err := splitArgs(text[1:])
	if err != nil {
		return "", nil, err
	}

	if len(fields) == 0 {
		return "", nil, errNotCommand
	}

	name := fields[0]
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	return strings.ToLower(name), fields[1:], nil
}

// splitArgs splits on whitespace. Single or double quotes group words, and
// a backslash escapes the next rune inside double quotes.
func splitArgs(input string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		quote   rune
		inToken bool
		escaped bool
	)

	for _, r := range input {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0:
			switch {
			case r == quote:
				quote = 0
			case r == '\\' && quote == '"':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				out = append(out, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}

	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}

	if inToken {
		out = append(out, cur.String())
	}

	return out, nil
}
