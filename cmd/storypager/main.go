/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"storypager/internal/config"
	"storypager/internal/crash"
	"storypager/internal/domain"
	applog "storypager/internal/log"
	"storypager/internal/paginate"
	"storypager/internal/session"
	"storypager/internal/storage"
	"storypager/internal/textmetrics"
	"storypager/internal/version"
)

func usage() {
	fmt.Println("Storypager — paginated story text tool")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  storypager version|-v|--version        Show version")
	fmt.Println("  storypager init <dir> <title>          Create a new story at <dir> with title <title>")
	fmt.Println("  storypager open <dir>                  Open story at <dir> and print summary")
	fmt.Println("  storypager save <dir>                  Save story at <dir> (creates backup)")
	fmt.Println("  storypager paginate <dir>              Repaginate story and print page summaries")
	fmt.Println("  storypager split <dir> <runeOffset>    Preview a manual page split at the offset")
	fmt.Println("  storypager search <dir> <query>        Full-text search over paginated pages")
	fmt.Println("  storypager runs <dir>                  List recent pagination runs")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var sh *storage.StoryHandle
	defer func() { crash.Recover(sh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Storypager — paginated story text tool")
		fmt.Println(version.String())
	case "init":
		if len(args) < 4 {
			fmt.Println("init requires <dir> and <title>")
			usage()
			os.Exit(2)
		}
		sh = cmdInit(l, args[2], args[3])
	case "open":
		if len(args) < 3 {
			fmt.Println("open requires <dir>")
			usage()
			os.Exit(2)
		}
		sh = cmdOpen(l, args[2])
	case "save":
		if len(args) < 3 {
			fmt.Println("save requires <dir>")
			usage()
			os.Exit(2)
		}
		sh = cmdSave(l, args[2])
	case "paginate":
		if len(args) < 3 {
			fmt.Println("paginate requires <dir>")
			usage()
			os.Exit(2)
		}
		sh = cmdPaginate(l, args[2])
	case "split":
		if len(args) < 4 {
			fmt.Println("split requires <dir> and <runeOffset>")
			usage()
			os.Exit(2)
		}
		pos, err := strconv.Atoi(args[3])
		if err != nil {
			fmt.Println("runeOffset must be an integer:", args[3])
			os.Exit(2)
		}
		sh = cmdSplit(l, args[2], pos)
	case "search":
		if len(args) < 4 {
			fmt.Println("search requires <dir> and <query>")
			usage()
			os.Exit(2)
		}
		cmdSearch(l, args[2], strings.Join(args[3:], " "))
	case "runs":
		if len(args) < 3 {
			fmt.Println("runs requires <dir>")
			usage()
			os.Exit(2)
		}
		cmdRuns(l, args[2])
	default:
		usage()
	}
}

func fatal(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func loadConfig(l *slog.Logger) config.AppConfig {
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	return cfg
}

func cmdInit(l *slog.Logger, dir, title string) *storage.StoryHandle {
	cfg := loadConfig(l)
	abs, _ := filepath.Abs(dir)
	l.Info("init story", slog.String("root", abs), slog.String("title", title))
	story := domain.Story{
		Title:     title,
		Content:   "",
		Settings:  cfg.Settings(),
		PageCount: cfg.Pagination.PageCount,
	}
	sh, err := storage.Init(abs, story)
	if err != nil {
		fatal(l, "init failed", err)
	}
	fmt.Println("Created story at", abs)
	return sh
}

func cmdOpen(l *slog.Logger, dir string) *storage.StoryHandle {
	abs, _ := filepath.Abs(dir)
	l.Info("open story", slog.String("root", abs))
	sh, err := storage.Open(abs)
	if err != nil {
		fatal(l, "open failed", err)
	}
	fmt.Printf("Opened story: %s\n", sh.Story.Title)
	fmt.Printf("Content: %d runes, %d pages configured\n", len([]rune(sh.Story.Content)), sh.Story.PageCount)
	if len(sh.Story.Pages) > 0 {
		fmt.Printf("Paginated: %d pages stored\n", len(sh.Story.Pages))
	}
	fmt.Println("Root:", sh.Root)
	return sh
}

func cmdSave(l *slog.Logger, dir string) *storage.StoryHandle {
	abs, _ := filepath.Abs(dir)
	l.Info("save story", slog.String("root", abs))
	sh, err := storage.Open(abs)
	if err != nil {
		fatal(l, "open before save failed", err)
	}
	if err := storage.Save(sh); err != nil {
		fatal(l, "save failed", err)
	}
	fmt.Println("Saved story and created a backup of the previous manifest (if any).")
	return sh
}

// buildMeasurer picks the height estimation backend: OpenType faces from
// the configured fonts directory when available, otherwise gofpdf's core
// font metrics (Latin scripts only).
func buildMeasurer(l *slog.Logger, cfg config.AppConfig) textmetrics.Measurer {
	if strings.TrimSpace(cfg.FontsDir) != "" {
		lib := textmetrics.NewFontLibrary()
		if errs := lib.LoadDir(cfg.FontsDir); len(errs) > 0 {
			for _, err := range errs {
				l.Warn("font load", slog.Any("err", err))
			}
		}
		if fams := lib.Families(); len(fams) > 0 {
			l.Debug("using opentype measurer", slog.Int("families", len(fams)))
			return textmetrics.NewWrapMeasurer(textmetrics.OTProvider{Lib: lib, Fallback: textmetrics.BasicProvider{}})
		}
	}
	l.Debug("using gofpdf core-font measurer")
	return textmetrics.NewFpdfMeasurer()
}

func cmdPaginate(l *slog.Logger, dir string) *storage.StoryHandle {
	cfg := loadConfig(l)
	abs, _ := filepath.Abs(dir)
	sh, err := storage.Open(abs)
	if err != nil {
		fatal(l, "open failed", err)
	}

	m := buildMeasurer(l, cfg)
	geom := cfg.Geometry()
	sess := session.New(&sh.Story, m, geom, session.HistoryConfig{})

	var titleHeight float64
	if strings.TrimSpace(sh.Story.Title) != "" {
		s := sh.Story.Settings
		titleHeight = m.MeasureHeight(sh.Story.Title, s.FontSize, s.LineHeight, geom.TextWidth(), s.FontFamily)
	}

	res := sess.Repaginate(titleHeight, paginate.SlogObserver{})
	placed := 0
	for i, p := range res.Pages {
		runes := len([]rune(p))
		placed += runes
		fmt.Printf("page %d: %4d runes  %s\n", i+1, runes, firstLine(p))
	}
	if res.Overflowed {
		fmt.Printf("WARNING: content does not fit in %d pages\n", sh.Story.PageCount)
	}

	if err := storage.Save(sh); err != nil {
		fatal(l, "save after paginate failed", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.IndexPages(ctx, sh.Root, sh.Story); err != nil {
		l.Warn("page indexing failed", slog.Any("err", err))
	}
	if err := storage.RecordRun(ctx, sh.Root, storage.RunInfo{
		PageCount:   sh.Story.PageCount,
		Overflowed:  res.Overflowed,
		Settings:    sh.Story.Settings,
		PlacedRunes: placed,
	}); err != nil {
		l.Warn("run recording failed", slog.Any("err", err))
	}
	return sh
}

func cmdSplit(l *slog.Logger, dir string, pos int) *storage.StoryHandle {
	cfg := loadConfig(l)
	abs, _ := filepath.Abs(dir)
	sh, err := storage.Open(abs)
	if err != nil {
		fatal(l, "open failed", err)
	}
	sess := session.New(&sh.Story, buildMeasurer(l, cfg), cfg.Geometry(), session.HistoryConfig{})
	before, after, err := sess.SplitAt(pos)
	if err != nil {
		fatal(l, "split failed", err)
	}
	fmt.Printf("before (%d runes): …%s\n", len([]rune(before)), lastLine(before))
	fmt.Printf("after  (%d runes): %s…\n", len([]rune(after)), firstLine(after))
	fmt.Println("integrity: ok")
	return sh
}

func cmdSearch(l *slog.Logger, dir, query string) {
	abs, _ := filepath.Abs(dir)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	matches, err := storage.SearchPages(ctx, abs, query)
	if err != nil {
		fatal(l, "search failed", err)
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return
	}
	for _, m := range matches {
		fmt.Printf("%s: %s\n", m.PageID, m.Snippet)
	}
}

func cmdRuns(l *slog.Logger, dir string) {
	abs, _ := filepath.Abs(dir)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	runs, err := storage.RecentRuns(ctx, abs, 20)
	if err != nil {
		fatal(l, "listing runs failed", err)
	}
	if len(runs) == 0 {
		fmt.Println("no pagination runs recorded")
		return
	}
	for _, r := range runs {
		flag := ""
		if r.Overflowed {
			flag = "  OVERFLOW"
		}
		fmt.Printf("%s  pages=%d placed=%d runes  %gpx/%.1f %s%s\n",
			r.TS.Local().Format(time.RFC3339), r.PageCount, r.PlacedRunes,
			r.Settings.FontSize, r.Settings.LineHeight, r.Settings.FontFamily, flag)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return truncate(s, 60)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return truncate(s, 60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
