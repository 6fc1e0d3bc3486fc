/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

import (
	"strings"

	"golang.org/x/image/font"
)

// WrapMeasurer estimates block height by greedy line wrapping against the
// resolved face's glyph advances. Breaks prefer the last space on the line;
// when a line holds no space (CJK text, long tokens) it breaks before the
// overflowing rune. Height follows the CSS model: wrapped line count times
// fontSize times lineHeight.
type WrapMeasurer struct {
	Provider Provider
}

func NewWrapMeasurer(p Provider) *WrapMeasurer { return &WrapMeasurer{Provider: p} }

func (m *WrapMeasurer) MeasureHeight(text string, fontSize, lineHeight, width float64, family string) float64 {
	if text == "" {
		return 0
	}
	p := m.Provider
	if p == nil {
		p = BasicProvider{}
	}
	face, _ := p.Resolve(FontSpec{Family: family, SizePt: fontSize, Weight: 400})

	lines := 0
	for _, hard := range strings.Split(text, "\n") {
		lines += wrapCount(face, hard, width)
	}
	return float64(lines) * fontSize * lineHeight
}

// wrapCount returns how many visual lines a single hard line occupies at
// the given width. An empty hard line still occupies one.
func wrapCount(face font.Face, line string, width float64) int {
	runes := []rune(line)
	if len(runes) == 0 {
		return 1
	}
	count := 1
	var cur float64
	lastSpace := -1 // index of the rune after the last space on this line
	var sinceSpace float64

	for i := 0; i < len(runes); i++ {
		adv := runeAdvance(face, runes[i])
		if width > 0 && cur > 0 && cur+adv > width {
			count++
			if lastSpace > 0 && runes[i] != ' ' {
				// Carry the partial word down to the new line.
				cur = sinceSpace
			} else {
				cur = 0
			}
			lastSpace = -1
			sinceSpace = 0
			if runes[i] == ' ' {
				// Space at the wrap point collapses; nothing carries over.
				continue
			}
		}
		cur += adv
		if runes[i] == ' ' {
			lastSpace = i + 1
			sinceSpace = 0
		} else {
			sinceSpace += adv
		}
	}
	return count
}

func runeAdvance(face font.Face, r rune) float64 {
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		adv, _ = face.GlyphAdvance('?')
	}
	return float64(adv) / 64 // fixed.Int26_6 to px
}
