/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"storypager/internal/domain"
)

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}
	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
}

func TestInitOrOpenIndexRequiresRoot(t *testing.T) {
	if _, err := InitOrOpenIndex("  "); err == nil {
		t.Fatalf("expected error for blank root")
	}
}

func TestIndexPagesAndSearch(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	story := minimalStory()
	story.Pages = []domain.Page{
		{ID: "page-1", Content: "the quick brown fox"},
		{ID: "page-2", Content: "jumps over the lazy dog"},
		{ID: "page-3", Content: ""},
		{ID: "page-4", Content: ""},
	}
	if err := IndexPages(ctx, root, story); err != nil {
		t.Fatalf("IndexPages: %v", err)
	}

	matches, err := SearchPages(ctx, root, "lazy")
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(matches) != 1 || matches[0].PageNo != 2 {
		t.Fatalf("matches = %+v, want page 2", matches)
	}
	if matches[0].Snippet == "" {
		t.Fatalf("empty snippet")
	}

	// Reindexing replaces, not appends.
	story.Pages[1].Content = "entirely different text"
	if err := IndexPages(ctx, root, story); err != nil {
		t.Fatalf("IndexPages again: %v", err)
	}
	matches, err = SearchPages(ctx, root, "lazy")
	if err != nil {
		t.Fatalf("SearchPages after reindex: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("stale matches after reindex: %+v", matches)
	}
}

func TestSearchPagesRequiresQuery(t *testing.T) {
	if _, err := SearchPages(context.Background(), t.TempDir(), "   "); err == nil {
		t.Fatalf("expected error for blank query")
	}
}

func TestRecordAndListRuns(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := RecordRun(ctx, root, RunInfo{
			TS:          base.Add(time.Duration(i) * time.Minute),
			PageCount:   4,
			Overflowed:  i == 2,
			Settings:    domain.Settings{FontSize: 42, LineHeight: 1.8, FontFamily: "F"},
			PlacedRunes: 100 * (i + 1),
		})
		if err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
	}
	runs, err := RecentRuns(ctx, root, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if !runs[0].Overflowed || runs[0].PlacedRunes != 300 {
		t.Fatalf("newest run wrong: %+v", runs[0])
	}
	if runs[0].Settings.FontFamily != "F" {
		t.Fatalf("settings not round-tripped: %+v", runs[0].Settings)
	}
}
