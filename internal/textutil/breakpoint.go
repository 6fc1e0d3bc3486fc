/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textutil

// Sentence-ending delimiters, in the order they are probed. Two-rune
// delimiters require a trailing space; the full-width forms end a sentence
// on their own.
var sentenceEnders = [][]rune{
	{'.', ' '},
	{'!', ' '},
	{'?', ' '},
	{'。'},
	{'！'},
	{'？'},
}

// FindBreak returns the best boundary at or before maxOffset (rune offset)
// to cut text at. If the whole text fits (rune length <= maxOffset) it
// returns the rune length. Otherwise it searches backward from maxOffset,
// never past the window midpoint, for: a paragraph break, a single line
// break, sentence-ending punctuation, then a space. Each match returns the
// offset after the delimiter, so the delimiter stays with the leading
// fragment. With no natural boundary in the back half of the window the
// cut is maxOffset itself, possibly mid-word.
func FindBreak(text string, maxOffset int) int {
	if maxOffset <= 0 {
		return 0
	}
	runes := []rune(text)
	if len(runes) <= maxOffset {
		return len(runes)
	}
	mid := maxOffset / 2

	// Paragraph break: "\n\n" fully inside the window.
	for i := maxOffset - 2; i >= mid; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i + 2
		}
	}
	// Single line break.
	for i := maxOffset - 1; i >= mid; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	// Sentence-ending punctuation.
	best := -1
	for _, delim := range sentenceEnders {
		for i := maxOffset - len(delim); i >= mid; i-- {
			if matchAt(runes, i, delim) {
				if end := i + len(delim); end > best {
					best = end
				}
				break
			}
		}
	}
	if best > 0 {
		return best
	}
	// Whitespace.
	for i := maxOffset - 1; i >= mid; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return maxOffset
}

func matchAt(runes []rune, i int, delim []rune) bool {
	if i < 0 || i+len(delim) > len(runes) {
		return false
	}
	for j, r := range delim {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}
