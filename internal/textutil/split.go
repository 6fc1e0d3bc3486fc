/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textutil

import (
	"regexp"
	"strings"
)

// SplitAt divides content into two fragments at the given rune position.
// Line endings are normalized first and the position is clamped to
// [0, rune length], so the call is total.
//
// When the split point lands inside a run of consecutive newlines the run
// is shared instead of handed wholesale to one side: with more than two
// newlines around the cut both fragments keep a paragraph break ("\n\n"),
// with exactly two each side keeps a single "\n". A split can therefore
// never manufacture a wider gap than a paragraph break, nor collapse an
// intended paragraph break into nothing.
func SplitAt(content string, position int) (before, after string) {
	content = Normalize(content)
	runes := []rune(content)
	if position < 0 {
		position = 0
	}
	if position > len(runes) {
		position = len(runes)
	}
	before = string(runes[:position])
	after = string(runes[position:])

	trailing := len(before) - len(strings.TrimRight(before, "\n"))
	leading := len(after) - len(strings.TrimLeft(after, "\n"))
	if trailing == 0 || leading == 0 {
		return before, after
	}
	switch sum := trailing + leading; {
	case sum > 2:
		before = strings.TrimRight(before, "\n") + "\n\n"
		after = "\n\n" + strings.TrimLeft(after, "\n")
	case sum == 2:
		before = strings.TrimRight(before, "\n") + "\n"
		after = "\n" + strings.TrimLeft(after, "\n")
	}
	return before, after
}

var (
	blankRuns   = regexp.MustCompile(`[^\S\n]+`)
	newlineRuns = regexp.MustCompile(`\n{2,}`)
	anySpace    = regexp.MustCompile(`\s+`)
)

// normalizeWhitespace collapses horizontal whitespace runs to single spaces
// and newline runs of two or more to exactly two.
func normalizeWhitespace(s string) string {
	s = Normalize(s)
	s = blankRuns.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ValidateIntegrity reports whether before and after together carry exactly
// the non-whitespace content of original, in order. It deliberately ignores
// whitespace-run-length differences introduced by SplitAt's newline
// clamping: the check proves no visible character was created, destroyed or
// reordered.
func ValidateIntegrity(original, before, after string) bool {
	joined := normalizeWhitespace(before) + " " + normalizeWhitespace(after)
	stripped := anySpace.ReplaceAllString(joined, "")
	want := anySpace.ReplaceAllString(normalizeWhitespace(original), "")
	return stripped == want
}
