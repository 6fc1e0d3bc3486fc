/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package paginate distributes a run of author text across a fixed number
// of fixed-size pages. Fit is decided by measured pixel height, not
// character counts: the engine binary-searches the largest prefix that
// fits a page's budget, then pulls the cut back to a natural boundary.
// Pagination is a pure function of (content, settings, config); it holds
// no state between calls.
package paginate

import (
	"strings"

	"storypager/internal/domain"
	"storypager/internal/textmetrics"
	"storypager/internal/textutil"
)

// Config carries the per-pass inputs that are not typography: how many
// pages to fill, their geometry, the estimated title block height, and an
// optional event observer.
type Config struct {
	PageCount   int
	Geometry    domain.Geometry
	TitleHeight float64
	Observer    Observer
}

// Result is the outcome of one pagination pass. Pages always has exactly
// Config.PageCount entries; pages without content are empty strings, not
// errors. Overflowed reports content left unplaced after the last page —
// it is surfaced, never silently dropped.
type Result struct {
	Pages      []string
	Overflowed bool
}

// AsPages converts the result into the manifest page model.
func (r Result) AsPages() []domain.Page {
	out := make([]domain.Page, len(r.Pages))
	for i, c := range r.Pages {
		out[i] = domain.Page{ID: domain.PageID(i + 1), Content: c}
	}
	return out
}

// Engine runs pagination passes against an injected height measurer. The
// measurer is assumed monotonic non-decreasing in the text prefix for
// fixed typography and width; the binary search is only correct under
// that assumption, and the post-refinement measurement in fitCandidate is
// the guard that keeps a violation from committing an oversized page.
type Engine struct {
	m textmetrics.Measurer
}

func New(m textmetrics.Measurer) *Engine { return &Engine{m: m} }

// Paginate distributes content across cfg.PageCount pages. Content is
// normalized first; title only affects the first page's capacity (the
// title text itself is not part of the body flow).
func (e *Engine) Paginate(content string, settings domain.Settings, title string, cfg Config) Result {
	n := cfg.PageCount
	if n <= 0 {
		n = 1
	}
	res := Result{Pages: make([]string, n)}

	remaining := []rune(textutil.Normalize(content))
	width := cfg.Geometry.TextWidth()
	hasTitle := strings.TrimSpace(title) != ""

	for i := 0; i < n; i++ {
		available := Capacity(cfg.Geometry, i, hasTitle, cfg.TitleHeight)
		if i == n-1 {
			available -= cfg.Geometry.LastPageReserve
		}
		if len(remaining) == 0 {
			continue
		}
		if available <= 0 {
			notifyDegenerate(cfg.Observer, i, available)
			continue
		}

		fits := func(l int) bool {
			return e.m.MeasureHeight(string(remaining[:l]), settings.FontSize, settings.LineHeight, width, settings.FontFamily) <= available
		}

		// Largest fitting prefix length, in runes.
		lo, hi := 0, len(remaining)
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if fits(mid) {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		if lo == 0 {
			notifyDegenerate(cfg.Observer, i, available)
			continue
		}

		cut := textutil.FindBreak(string(remaining), lo)
		if cut <= 0 {
			cut = lo
		}
		cut = e.fitCandidate(remaining, cut, fits)
		if cut <= 0 {
			notifyDegenerate(cfg.Observer, i, available)
			continue
		}

		page := string(remaining[:cut])
		res.Pages[i] = page
		notifyCommitted(cfg.Observer, i, cut,
			e.m.MeasureHeight(page, settings.FontSize, settings.LineHeight, width, settings.FontFamily), available)

		remaining = remaining[cut:]
		for len(remaining) > 0 && remaining[0] == '\n' {
			remaining = remaining[1:]
		}
	}

	if strings.TrimSpace(string(remaining)) != "" {
		res.Overflowed = true
		notifyOverflow(cfg.Observer, len(remaining))
	}
	return res
}

// fitCandidate verifies the refined cut against the budget. Natural
// boundaries can overshoot the binary-search prefix, so the cut is walked
// back: first to the last newline before it, then in 10%-of-length steps
// until it fits or nothing is left.
func (e *Engine) fitCandidate(remaining []rune, cut int, fits func(int) bool) int {
	if cut > len(remaining) {
		cut = len(remaining)
	}
	if fits(cut) {
		return cut
	}
	for j := cut - 1; j > 0; j-- {
		if remaining[j-1] == '\n' {
			if fits(j) {
				return j
			}
			cut = j
			break
		}
	}
	step := cut / 10
	if step < 1 {
		step = 1
	}
	for cut > 0 && !fits(cut) {
		cut -= step
	}
	if cut < 0 {
		cut = 0
	}
	return cut
}
