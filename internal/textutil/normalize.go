/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textutil implements the plain-text primitives of the pagination
// engine: line-ending normalization, break-point search, offset splitting
// and the content-conservation check. All exported offsets are rune
// offsets, matching the caret positions the host editor works with.
package textutil

import "strings"

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize canonicalizes line endings to "\n". It is idempotent and never
// grows the string. Single "\n" marks intra-paragraph continuation, "\n\n"
// marks a paragraph boundary; both survive unchanged.
func Normalize(s string) string {
	return lineEndings.Replace(s)
}
