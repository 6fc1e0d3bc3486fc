/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import applog "storypager/internal/log"

// Observer receives per-page events during a pagination pass. It is an
// explicit collaborator passed in via Config, never ambient state; a nil
// observer is valid and silently ignored.
type Observer interface {
	// PageCommitted fires when a page receives content. height is the
	// measured height of the committed text, capacity its budget.
	PageCommitted(index int, runeLen int, height, capacity float64)
	// DegenerateFit fires when a page ends up empty even though content
	// remains, either because its capacity was non-positive or because
	// not a single rune fit.
	DegenerateFit(index int, capacity float64)
	// Overflow fires once, after the last page, when content remains.
	Overflow(remainingRunes int)
}

// SlogObserver reports pagination events through the application logger.
type SlogObserver struct{}

func (SlogObserver) PageCommitted(index int, runeLen int, height, capacity float64) {
	applog.WithComponent("paginate").Debug("page committed",
		"page", index+1, "runes", runeLen, "height", height, "capacity", capacity)
}

func (SlogObserver) DegenerateFit(index int, capacity float64) {
	applog.WithComponent("paginate").Warn("nothing fits on page",
		"page", index+1, "capacity", capacity)
}

func (SlogObserver) Overflow(remainingRunes int) {
	applog.WithComponent("paginate").Warn("content overflows page count",
		"remainingRunes", remainingRunes)
}

func notifyCommitted(o Observer, index, runeLen int, height, capacity float64) {
	if o != nil {
		o.PageCommitted(index, runeLen, height, capacity)
	}
}

func notifyDegenerate(o Observer, index int, capacity float64) {
	if o != nil {
		o.DegenerateFit(index, capacity)
	}
}

func notifyOverflow(o Observer, remainingRunes int) {
	if o != nil {
		o.Overflow(remainingRunes)
	}
}
