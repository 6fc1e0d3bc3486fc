/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"testing"
)

func TestEnvOverridesPageCount(t *testing.T) {
	t.Setenv(EnvPageCount, "6")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Pagination.PageCount, 6; got != want {
		t.Fatalf("Pagination.PageCount = %d, want %d", got, want)
	}
}

func TestEnvOverridesFontFamily(t *testing.T) {
	t.Setenv(EnvFontFamily, "Pretendard")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Typography.FontFamily != "Pretendard" {
		t.Fatalf("Typography.FontFamily = %q", cfg.Typography.FontFamily)
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	src := AppConfig{} // empty file config must not clobber defaults
	mergeInto(&dst, &src)
	if dst.Page.Width != Defaults().Page.Width {
		t.Fatalf("Page.Width clobbered by empty merge: %v", dst.Page.Width)
	}
	if dst.Pagination.PageCount != 4 {
		t.Fatalf("PageCount clobbered: %d", dst.Pagination.PageCount)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "JSON"
	src.Logging.Source = true
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source {
		t.Fatalf("logging not merged: %+v", dst.Logging)
	}
}

func TestGeometryConversion(t *testing.T) {
	cfg := Defaults()
	g := cfg.Geometry()
	if g.PageWidth != cfg.Page.Width || g.PageHeight != cfg.Page.Height {
		t.Fatalf("geometry mismatch: %+v", g)
	}
	if g.MinCapacity != cfg.Page.MinCapacity {
		t.Fatalf("MinCapacity not carried: %v", g.MinCapacity)
	}
}
