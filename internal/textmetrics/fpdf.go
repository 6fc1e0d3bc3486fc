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

	"github.com/jung-kurt/gofpdf"
)

// FpdfMeasurer estimates height with gofpdf's word-wrap splitter over the
// PDF core fonts. Core fonts cover cp1252 only, so this measurer is for
// Latin-script content; CJK text should go through WrapMeasurer with a
// loaded OpenType face. Pixels are treated as points (the document is
// created in point units), which matches the CSS px model at 72 DPI.
type FpdfMeasurer struct {
	pdf *gofpdf.Fpdf
}

func NewFpdfMeasurer() *FpdfMeasurer {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	return &FpdfMeasurer{pdf: pdf}
}

func (m *FpdfMeasurer) MeasureHeight(text string, fontSize, lineHeight, width float64, family string) float64 {
	if text == "" {
		return 0
	}
	m.pdf.SetFont(coreFont(family), "", fontSize)

	lines := 0
	for _, hard := range strings.Split(text, "\n") {
		if hard == "" {
			lines++
			continue
		}
		lines += len(m.pdf.SplitText(hard, width))
	}
	return float64(lines) * fontSize * lineHeight
}

// coreFont maps a logical family onto one of the PDF core fonts.
func coreFont(family string) string {
	switch {
	case strings.Contains(strings.ToLower(family), "courier"),
		strings.Contains(strings.ToLower(family), "mono"):
		return "Courier"
	case strings.Contains(strings.ToLower(family), "times"),
		strings.Contains(strings.ToLower(family), "serif"),
		strings.Contains(strings.ToLower(family), "batang"):
		return "Times"
	default:
		return "Helvetica"
	}
}
