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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"storypager/internal/domain"
)

// AppConfig is the user-editable configuration persisted to a YAML file in
// the user scope. Environment variables are treated as read-only overrides
// at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type PageConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Padding         float64 `yaml:"padding"`
	TitleSpacing    float64 `yaml:"title_spacing"`
	TitleReserve    float64 `yaml:"title_reserve"`
	LastPageReserve float64 `yaml:"last_page_reserve"`
	MinCapacity     float64 `yaml:"min_capacity"`
}

type PaginationConfig struct {
	PageCount int `yaml:"page_count"`
}

type TypographyConfig struct {
	FontSize   float64 `yaml:"font_size"`
	LineHeight float64 `yaml:"line_height"`
	FontFamily string  `yaml:"font_family"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	Page          PageConfig       `yaml:"page"`
	Pagination    PaginationConfig `yaml:"pagination"`
	Typography    TypographyConfig `yaml:"typography"`
	FontsDir      string           `yaml:"fonts_dir"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults: a 1080x1920 story card with
// generous padding, four pages, and a Korean serif body face.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Page: PageConfig{
			Width:        1080,
			Height:       1920,
			Padding:      96,
			TitleSpacing: 32,
			TitleReserve: 48,
			MinCapacity:  100,
		},
		Pagination: PaginationConfig{PageCount: 4},
		Typography: TypographyConfig{FontSize: 42, LineHeight: 1.8, FontFamily: "KoPubWorldBatangLight"},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvPageCount  = "SPG_PAGE_COUNT"
	EnvFontsDir   = "SPG_FONTS_DIR"
	EnvFontFamily = "SPG_FONT_FAMILY"
	EnvLogLevel   = "SPG_LOG_LEVEL"
	EnvLogFormat  = "SPG_LOG_FORMAT"
	EnvLogSource  = "SPG_LOG_SOURCE"
	EnvLogFile    = "SPG_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Storypager")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Storypager")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "storypager")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Geometry converts the page section into the domain geometry value.
func (c AppConfig) Geometry() domain.Geometry {
	return domain.Geometry{
		PageWidth:       c.Page.Width,
		PageHeight:      c.Page.Height,
		Padding:         c.Page.Padding,
		TitleSpacing:    c.Page.TitleSpacing,
		TitleReserve:    c.Page.TitleReserve,
		LastPageReserve: c.Page.LastPageReserve,
		MinCapacity:     c.Page.MinCapacity,
	}
}

// Settings converts the typography section into the domain settings value.
func (c AppConfig) Settings() domain.Settings {
	return domain.Settings{
		FontSize:   c.Typography.FontSize,
		LineHeight: c.Typography.LineHeight,
		FontFamily: c.Typography.FontFamily,
	}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Page.Width > 0 {
		dst.Page.Width = src.Page.Width
	}
	if src.Page.Height > 0 {
		dst.Page.Height = src.Page.Height
	}
	if src.Page.Padding > 0 {
		dst.Page.Padding = src.Page.Padding
	}
	if src.Page.TitleSpacing > 0 {
		dst.Page.TitleSpacing = src.Page.TitleSpacing
	}
	if src.Page.TitleReserve > 0 {
		dst.Page.TitleReserve = src.Page.TitleReserve
	}
	if src.Page.LastPageReserve > 0 {
		dst.Page.LastPageReserve = src.Page.LastPageReserve
	}
	if src.Page.MinCapacity > 0 {
		dst.Page.MinCapacity = src.Page.MinCapacity
	}
	if src.Pagination.PageCount > 0 {
		dst.Pagination.PageCount = src.Pagination.PageCount
	}
	if src.Typography.FontSize > 0 {
		dst.Typography.FontSize = src.Typography.FontSize
	}
	if src.Typography.LineHeight > 0 {
		dst.Typography.LineHeight = src.Typography.LineHeight
	}
	if strings.TrimSpace(src.Typography.FontFamily) != "" {
		dst.Typography.FontFamily = strings.TrimSpace(src.Typography.FontFamily)
	}
	if strings.TrimSpace(src.FontsDir) != "" {
		dst.FontsDir = strings.TrimSpace(src.FontsDir)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvPageCount)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pagination.PageCount = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontsDir)); v != "" {
		cfg.FontsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFamily)); v != "" {
		cfg.Typography.FontFamily = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
