/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storypager/internal/domain"
)

func minimalStory() domain.Story {
	return domain.Story{
		Title:     "Storage Test",
		Content:   "Hello world",
		Settings:  domain.Settings{FontSize: 42, LineHeight: 1.8, FontFamily: "TestFamily"},
		PageCount: 4,
	}
}

func TestInitCreatesLayoutAndManifest(t *testing.T) {
	root := t.TempDir()
	sh, err := Init(root, minimalStory())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(sh.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	for _, d := range []string{"exports", BackupsDirName} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("subdir %s missing", d)
		}
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, minimalStory()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	sh, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sh.Story.Title != "Storage Test" || sh.Story.Content != "Hello world" {
		t.Fatalf("story lost in round trip: %+v", sh.Story)
	}
	if sh.Story.PageCount != 4 {
		t.Fatalf("pageCount = %d", sh.Story.PageCount)
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	root := t.TempDir()
	sh, err := Init(root, minimalStory())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	sh.Story.Content = "changed"
	if err := Save(sh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("no backup written on second save")
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	root := t.TempDir()
	sh, err := Init(root, minimalStory())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	// Second save backs up the good manifest; then corrupt the live one.
	time.Sleep(1100 * time.Millisecond) // backup names have second granularity
	sh.Story.Content = "second version"
	if err := Save(sh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(sh.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open with backup: %v", err)
	}
	if got.Story.Content != "Hello world" {
		t.Fatalf("unexpected recovered content: %q", got.Story.Content)
	}
}

func TestOpenRejectsSchemaViolations(t *testing.T) {
	root := t.TempDir()
	// Valid JSON, invalid manifest: pageCount below minimum, no backups.
	bad := `{"content":"x","settings":{"fontSize":42,"lineHeight":1.8,"fontFamily":"F"},"pageCount":0}` + "\n"
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("expected error for schema-violating manifest without backups")
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	root := t.TempDir()
	sh, err := Init(root, minimalStory())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(sh, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if sh.Root != newRoot {
		t.Fatalf("handle root not updated: %s", sh.Root)
	}
	if _, err := os.Stat(filepath.Join(newRoot, ManifestFileName)); err != nil {
		t.Fatalf("manifest missing at new root: %v", err)
	}
}

func TestAutosaveCrashSnapshot(t *testing.T) {
	root := t.TempDir()
	sh, err := Init(root, minimalStory())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	sh.Story.Content = "unsaved edits"
	path, err := AutosaveCrashSnapshot(sh)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(b), "unsaved edits") {
		t.Fatalf("snapshot content wrong: %s", b)
	}
	// Live manifest untouched.
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Story.Content != "Hello world" {
		t.Fatalf("crash snapshot modified the manifest: %q", got.Story.Content)
	}
}
