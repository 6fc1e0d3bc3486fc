/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session owns an open story during editing: the content string,
// its pagination result, and the undo history. The pagination engine
// itself stays pure; the session is the stateful layer above it.
package session

import (
	"fmt"
	"sync"
	"time"

	"storypager/internal/domain"
	"storypager/internal/paginate"
	"storypager/internal/textmetrics"
	"storypager/internal/textutil"
)

// Session wraps a story for interactive editing. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	story    *domain.Story
	engine   *paginate.Engine
	geometry domain.Geometry
	history  *History
	last     paginate.Result
}

func New(story *domain.Story, m textmetrics.Measurer, g domain.Geometry, hc HistoryConfig) *Session {
	story.Content = textutil.Normalize(story.Content)
	return &Session{
		story:    story,
		engine:   paginate.New(m),
		geometry: g,
		history:  NewHistory(hc),
	}
}

func (s *Session) Story() *domain.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.story
}

func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.story.Content
}

// SetContent replaces the story content, snapshotting the old one.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotLocked()
	s.story.Content = textutil.Normalize(content)
}

// Repaginate recomputes all pages from the current content and settings
// and stores them on the story. titleHeight is the estimated title block
// height; obs may be nil.
func (s *Session) Repaginate(titleHeight float64, obs paginate.Observer) paginate.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.engine.Paginate(s.story.Content, s.story.Settings, s.story.Title, paginate.Config{
		PageCount:   s.story.PageCount,
		Geometry:    s.geometry,
		TitleHeight: titleHeight,
		Observer:    obs,
	})
	s.story.Pages = res.AsPages()
	s.last = res
	return res
}

// LastResult returns the most recent pagination result, if any.
func (s *Session) LastResult() paginate.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// SplitAt splits the content at the given rune position without mutating
// the session. The fragments are integrity-checked against the current
// content; a failure means a splitter bug, not bad input.
func (s *Session) SplitAt(position int) (before, after string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before, after = textutil.SplitAt(s.story.Content, position)
	if !textutil.ValidateIntegrity(s.story.Content, before, after) {
		return "", "", fmt.Errorf("split at %d lost content", position)
	}
	return before, after, nil
}

// ApplySplit performs SplitAt and commits the rejoined fragments as the
// new content, snapshotting first. The rejoin keeps the split's clamped
// newline run, so an oversized gap at the split point collapses to a
// paragraph break.
func (s *Session) ApplySplit(position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before, after := textutil.SplitAt(s.story.Content, position)
	if !textutil.ValidateIntegrity(s.story.Content, before, after) {
		return fmt.Errorf("split at %d lost content", position)
	}
	s.snapshotLocked()
	s.story.Content = before + after
	return nil
}

// Undo restores the previous content snapshot. Reports whether there was
// anything to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Undo(s.story.Content)
	if !ok {
		return false
	}
	s.story.Content = snap.Content
	return true
}

// Redo re-applies a content change rolled back by Undo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Redo(s.story.Content)
	if !ok {
		return false
	}
	s.story.Content = snap.Content
	return true
}

func (s *Session) snapshotLocked() {
	s.history.Push(Snapshot{Content: s.story.Content, TS: time.Now()})
}
