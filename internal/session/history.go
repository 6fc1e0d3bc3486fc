/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"sync"
	"time"
)

// Snapshot is a reversible copy of the story content. Size is accounted
// as len(Content); TS is when the snapshot was captured.
type Snapshot struct {
	Content string
	TS      time.Time
}

// HistoryConfig controls memory and depth caps and coalescing behavior.
type HistoryConfig struct {
	// MaxBytes is a soft cap; oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxDepth limits the number of undo snapshots kept (0 means unlimited).
	MaxDepth int
	// MinInterval coalesces snapshots captured within the interval,
	// replacing the previous one instead of pushing a new entry. Keeps
	// keystroke-granularity edits from flooding the stack.
	MinInterval time.Duration
}

// History is an in-memory undo/redo stack for the story content with
// performance safeguards. It is safe for concurrent use.
type History struct {
	cfg        HistoryConfig
	mu         sync.Mutex
	undo       []Snapshot
	redo       []Snapshot
	totalBytes int
}

func NewHistory(cfg HistoryConfig) *History {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &History{cfg: cfg}
}

// Push records a snapshot. If within MinInterval of the previous one it
// replaces it instead. Any push invalidates the redo stack.
func (h *History) Push(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.undo); n > 0 {
		last := h.undo[n-1]
		if s.TS.Sub(last.TS) < h.cfg.MinInterval {
			h.totalBytes += len(s.Content) - len(last.Content)
			h.undo[n-1] = s
			h.redo = nil
			h.enforceCapsLocked()
			return
		}
	}
	h.undo = append(h.undo, s)
	h.totalBytes += len(s.Content)
	h.redo = nil
	h.enforceCapsLocked()
}

// Undo pops the most recent snapshot, parking current on the redo stack.
func (h *History) Undo(current string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.undo)
	if n == 0 {
		return Snapshot{}, false
	}
	s := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.totalBytes -= len(s.Content)
	h.redo = append(h.redo, Snapshot{Content: current, TS: time.Now()})
	return s, true
}

// Redo pops the redo stack, parking current back on the undo stack.
func (h *History) Redo(current string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.redo)
	if n == 0 {
		return Snapshot{}, false
	}
	s := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, Snapshot{Content: current, TS: s.TS})
	h.totalBytes += len(current)
	h.enforceCapsLocked()
	return s, true
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo, h.redo, h.totalBytes = nil, nil, 0
}

// Stats returns current sizes for diagnostics.
func (h *History) Stats() (totalBytes, depth int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totalBytes, len(h.undo)
}

func (h *History) enforceCapsLocked() {
	if h.cfg.MaxDepth > 0 && len(h.undo) > h.cfg.MaxDepth {
		toDrop := len(h.undo) - h.cfg.MaxDepth
		for i := 0; i < toDrop; i++ {
			h.totalBytes -= len(h.undo[i].Content)
		}
		h.undo = append([]Snapshot{}, h.undo[toDrop:]...)
	}
	for h.cfg.MaxBytes > 0 && h.totalBytes > h.cfg.MaxBytes && len(h.undo) > 1 {
		h.totalBytes -= len(h.undo[0].Content)
		h.undo = h.undo[1:]
	}
	if h.totalBytes < 0 {
		h.totalBytes = 0
	}
}
