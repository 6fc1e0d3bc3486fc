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
	"testing"
)

// Face7x13 advances every glyph exactly 7 pixels, so expected line counts
// are computable by hand.

func TestWrapMeasurerEmptyText(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	if h := m.MeasureHeight("", 42, 1.8, 888, "any"); h != 0 {
		t.Fatalf("empty text height = %v, want 0", h)
	}
}

func TestWrapMeasurerSingleLine(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	got := m.MeasureHeight("hello", 42, 1.8, 888, "any")
	want := 42 * 1.8
	if got != want {
		t.Fatalf("height = %v, want %v", got, want)
	}
}

func TestWrapMeasurerPerRuneWrap(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	// 10 glyphs of 7px at width 35 fit 5 per line: 2 lines.
	got := m.MeasureHeight("abcdefghij", 10, 1.0, 35, "any")
	if got != 20 {
		t.Fatalf("height = %v, want 20 (2 lines)", got)
	}
}

func TestWrapMeasurerBreaksAtSpace(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	// "aaaa bbbb" at width 42 (6 glyphs): "aaaa " then "bbbb", 2 lines.
	got := m.MeasureHeight("aaaa bbbb", 10, 1.0, 42, "any")
	if got != 20 {
		t.Fatalf("height = %v, want 20 (2 lines)", got)
	}
}

func TestWrapMeasurerHardNewlines(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	// Blank hard lines still occupy a visual line.
	got := m.MeasureHeight("a\n\nb", 10, 1.0, 888, "any")
	if got != 30 {
		t.Fatalf("height = %v, want 30 (3 lines)", got)
	}
}

func TestWrapMeasurerScalesWithLineHeight(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	tight := m.MeasureHeight("hello world", 42, 1.0, 888, "any")
	loose := m.MeasureHeight("hello world", 42, 2.0, 888, "any")
	if loose != 2*tight {
		t.Fatalf("lineHeight scaling broken: %v vs %v", tight, loose)
	}
}

func TestWrapMeasurerMonotonicInPrefix(t *testing.T) {
	m := NewWrapMeasurer(BasicProvider{})
	text := "The quick brown fox jumps over the lazy dog.\n한국어 문장도 함께 섞여 있다.\nAnd a final line to wrap."
	runes := []rune(text)
	prev := 0.0
	for i := 0; i <= len(runes); i++ {
		h := m.MeasureHeight(string(runes[:i]), 42, 1.8, 200, "any")
		if h < prev {
			t.Fatalf("height shrank at prefix %d: %v -> %v", i, prev, h)
		}
		prev = h
	}
}

func TestWrapMeasurerNilProviderDefaults(t *testing.T) {
	m := &WrapMeasurer{}
	if h := m.MeasureHeight("x", 10, 1.0, 100, ""); h != 10 {
		t.Fatalf("height = %v, want 10", h)
	}
}

func TestFpdfMeasurerBasics(t *testing.T) {
	m := NewFpdfMeasurer()
	if h := m.MeasureHeight("", 42, 1.8, 888, "Helvetica"); h != 0 {
		t.Fatalf("empty text height = %v, want 0", h)
	}
	one := m.MeasureHeight("hello", 42, 1.8, 888, "Helvetica")
	if one != 42*1.8 {
		t.Fatalf("single word height = %v, want %v", one, 42*1.8)
	}
	long := strings.Repeat("wide words keep coming ", 20)
	narrow := m.MeasureHeight(long, 42, 1.8, 200, "Helvetica")
	if narrow <= one {
		t.Fatalf("long narrow text should be taller: %v vs %v", narrow, one)
	}
}

func TestCoreFontMapping(t *testing.T) {
	cases := []struct{ family, want string }{
		{"KoPubWorldBatangLight", "Times"},
		{"Courier New", "Courier"},
		{"JetBrains Mono", "Courier"},
		{"Inter", "Helvetica"},
		{"", "Helvetica"},
	}
	for _, c := range cases {
		if got := coreFont(c.family); got != c.want {
			t.Fatalf("coreFont(%q) = %q, want %q", c.family, got, c.want)
		}
	}
}

func TestOTProviderFallsBack(t *testing.T) {
	p := OTProvider{Lib: NewFontLibrary()}
	face, met := p.Resolve(FontSpec{Family: "missing", SizePt: 42})
	if face == nil {
		t.Fatalf("fallback face is nil")
	}
	if met.Ascent <= 0 {
		t.Fatalf("fallback metrics empty: %+v", met)
	}
}

func TestFontLibraryLoadErrors(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadTTF("nope", 400, false, "/does/not/exist.ttf"); err == nil {
		t.Fatalf("expected error for missing font file")
	}
	dir := t.TempDir()
	if errs := fl.LoadDir(dir); len(errs) != 0 {
		t.Fatalf("empty dir should load cleanly: %v", errs)
	}
	if fams := fl.Families(); len(fams) != 0 {
		t.Fatalf("unexpected families: %v", fams)
	}
}
