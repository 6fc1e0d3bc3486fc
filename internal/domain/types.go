/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for storypager: a story is a single
// run of author text that gets distributed across a fixed number of
// fixed-size pages. It serializes to a human-readable JSON manifest.

import "fmt"

// Settings holds the typography inputs to every height measurement.
// They must be held constant across one pagination pass.
type Settings struct {
	FontSize   float64 `json:"fontSize"`   // px, > 0
	LineHeight float64 `json:"lineHeight"` // unitless multiplier, >= 1.0
	FontFamily string  `json:"fontFamily"`
}

// Geometry describes the fixed page canvas in pixels.
type Geometry struct {
	PageWidth       float64 `json:"pageWidth"`
	PageHeight      float64 `json:"pageHeight"`
	Padding         float64 `json:"padding"`      // uniform top/bottom/left/right
	TitleSpacing    float64 `json:"titleSpacing"` // gap between title block and body
	TitleReserve    float64 `json:"titleReserve"` // extra reserve under the title block
	LastPageReserve float64 `json:"lastPageReserve,omitempty"`
	MinCapacity     float64 `json:"minCapacity"` // floor for a titled page's body budget
}

// TextWidth returns the horizontal space available to body text.
func (g Geometry) TextWidth() float64 { return g.PageWidth - 2*g.Padding }

// Page is one fixed slot of paginated output. Pages are 1-indexed and their
// IDs are derived from position, never persisted independently of it.
type Page struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// PageID derives the stable identifier for the 1-indexed page number n.
func PageID(n int) string { return fmt.Sprintf("page-%d", n) }

// Story is the manifest root: author text plus the settings it is paginated
// with. Pages hold the result of the most recent pagination, if any.
type Story struct {
	Title     string   `json:"title,omitempty"`
	Content   string   `json:"content"`
	Settings  Settings `json:"settings"`
	PageCount int      `json:"pageCount"`
	Pages     []Page   `json:"pages,omitempty"`
}
