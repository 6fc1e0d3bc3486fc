/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"
)

func TestPageID(t *testing.T) {
	if got := PageID(1); got != "page-1" {
		t.Fatalf("PageID(1) = %q", got)
	}
	if got := PageID(12); got != "page-12" {
		t.Fatalf("PageID(12) = %q", got)
	}
}

func TestTextWidth(t *testing.T) {
	g := Geometry{PageWidth: 1080, Padding: 90}
	if got := g.TextWidth(); got != 900 {
		t.Fatalf("TextWidth = %v, want 900", got)
	}
}

func TestStoryRoundTripsThroughJSON(t *testing.T) {
	s := Story{
		Title:     "첫 이야기",
		Content:   "First paragraph\n\nSecond paragraph",
		Settings:  Settings{FontSize: 42, LineHeight: 1.8, FontFamily: "KoPubWorldBatangLight"},
		PageCount: 4,
		Pages:     []Page{{ID: PageID(1), Content: "First paragraph"}},
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Story
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Title != s.Title || back.Content != s.Content || back.PageCount != 4 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Settings != s.Settings {
		t.Fatalf("settings mismatch: %+v", back.Settings)
	}
}
