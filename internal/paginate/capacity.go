/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import "storypager/internal/domain"

// Capacity returns the pixel height budget available for body text on the
// page at pageIndex (0-based). A page without a title gets the full height
// minus top and bottom padding. The first page with a title additionally
// loses the title block, the spacing under it and the title reserve; that
// budget is floored at Geometry.MinCapacity so pagination always makes
// forward progress.
//
// The last-page reserve is not applied here; the engine subtracts it after
// the title adjustment, only for the final page index.
func Capacity(g domain.Geometry, pageIndex int, hasTitle bool, titleHeight float64) float64 {
	base := g.PageHeight - 2*g.Padding
	if pageIndex != 0 || !hasTitle {
		return base
	}
	c := base - titleHeight - g.TitleSpacing - g.TitleReserve
	if c < g.MinCapacity {
		return g.MinCapacity
	}
	return c
}
