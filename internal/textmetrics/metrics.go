/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textmetrics

// Abstractions for text height estimation. The pagination engine never
// touches fonts directly; it asks a Measurer how tall a block of text
// renders at a given typography, and all font resolution lives behind
// the Provider interface so tests can swap in a deterministic face.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float64
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Measurer estimates the rendered height of a text block. The height
// model is the CSS one: wrapped line count times fontSize times
// lineHeight, independent of face metrics. Implementations must return
// 0 for empty text and must be monotonic in the text prefix: adding
// content never reports a smaller height. The pagination engine's
// binary search depends on that.
type Measurer interface {
	MeasureHeight(text string, fontSize, lineHeight, width float64, family string) float64
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// Every glyph advances exactly 7 pixels regardless of the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}
