/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package htmlconv

import (
	"strings"
	"testing"
)

func TestTextToHTMLParagraphsAndBreaks(t *testing.T) {
	got := TextToHTML("first line\nsecond line\n\nnext paragraph")
	want := "<p>first line<br>second line</p>\n<p>next paragraph</p>"
	if got != want {
		t.Fatalf("TextToHTML = %q, want %q", got, want)
	}
}

func TestTextToHTMLEscapesEntities(t *testing.T) {
	got := TextToHTML("a < b & c > d")
	if !strings.Contains(got, "a &lt; b &amp; c &gt; d") {
		t.Fatalf("entities not escaped: %q", got)
	}
}

func TestHTMLToTextBasic(t *testing.T) {
	got, err := HTMLToText("<p>first line<br>second line</p><p>next paragraph</p>")
	if err != nil {
		t.Fatalf("HTMLToText error: %v", err)
	}
	want := "first line\nsecond line\n\nnext paragraph"
	if got != want {
		t.Fatalf("HTMLToText = %q, want %q", got, want)
	}
}

func TestHTMLToTextDecodesEntities(t *testing.T) {
	got, err := HTMLToText("<p>a &lt; b &amp; c</p>")
	if err != nil {
		t.Fatalf("HTMLToText error: %v", err)
	}
	if got != "a < b & c" {
		t.Fatalf("HTMLToText = %q", got)
	}
}

func TestHTMLToTextStripsUnknownTagsAndScripts(t *testing.T) {
	got, err := HTMLToText("<p><span>kept</span></p><script>alert(1)</script>")
	if err != nil {
		t.Fatalf("HTMLToText error: %v", err)
	}
	if got != "kept" {
		t.Fatalf("HTMLToText = %q", got)
	}
}

func TestRoundTripPreservesStructure(t *testing.T) {
	texts := []string{
		"one paragraph",
		"two\nlines",
		"para one\n\npara two\n\npara three",
		"헤드라인\n\n본문 첫 줄\n본문 둘째 줄",
	}
	for _, text := range texts {
		back, err := HTMLToText(TextToHTML(text))
		if err != nil {
			t.Fatalf("round trip error for %q: %v", text, err)
		}
		wantParas := strings.Split(text, "\n\n")
		gotParas := strings.Split(back, "\n\n")
		if len(gotParas) != len(wantParas) {
			t.Fatalf("paragraph count changed for %q: got %d want %d (%q)",
				text, len(gotParas), len(wantParas), back)
		}
		for i := range wantParas {
			if strings.Join(strings.Fields(gotParas[i]), " ") != strings.Join(strings.Fields(wantParas[i]), " ") {
				t.Fatalf("paragraph %d content changed: %q vs %q", i, gotParas[i], wantParas[i])
			}
		}
	}
}

func TestHTMLToTextBareText(t *testing.T) {
	got, err := HTMLToText("just text, no markup")
	if err != nil {
		t.Fatalf("HTMLToText error: %v", err)
	}
	if got != "just text, no markup" {
		t.Fatalf("HTMLToText = %q", got)
	}
}
