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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type ConvertConfig struct {
	// Emphasis keeps bold/italic/underline runs; false stores one flat run per element.
	Emphasis bool `yaml:"emphasis"`
	// PageBreaks marks the paragraph after "===" with StartsNewPage.
	PageBreaks bool `yaml:"page_breaks"`
}

type PDFConfig struct {
	Paper    string  `yaml:"paper"` // "Letter" | "A4"
	FontSize float64 `yaml:"font_size"`
}

type IndexConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Convert       ConvertConfig `yaml:"convert"`
	PDF           PDFConfig     `yaml:"pdf"`
	Index         IndexConfig   `yaml:"index"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Convert:       ConvertConfig{Emphasis: true, PageBreaks: false},
		PDF:           PDFConfig{Paper: "Letter", FontSize: 12},
		Index:         IndexConfig{Enabled: false, Path: ""},
	}
}

// indexFileName is the library index file created next to the config file.
const indexFileName = "library.sqlite"

// Env var names used as overrides.
const (
	EnvConfigPath = "FFDX_CONFIG"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "FFDX_LOG_LEVEL"
	EnvLogFormat = "FFDX_LOG_FORMAT"
	EnvLogSource = "FFDX_LOG_SOURCE"
	EnvLogFile   = "FFDX_LOG_FILE"
	// EnvEmphasis Conversion envs
	EnvEmphasis   = "FFDX_EMPHASIS"
	EnvPageBreaks = "FFDX_PAGE_BREAKS"
	EnvPDFPaper   = "FFDX_PDF_PAPER"
	EnvPDFFont    = "FFDX_PDF_FONT_SIZE"
	EnvIndex      = "FFDX_INDEX"
	EnvIndexPath  = "FFDX_INDEX_PATH"
)

// configDir resolves the per-user directory; tests swap it.
var configDir = ConfigDir

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "FountainFDX")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "FountainFDX")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "fountainfdx")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "fountainfdx")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path, honouring FFDX_CONFIG.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		// No config file can be located; the environment still applies and the
		// index lives in the working directory.
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		defaultIndexPath(&cfg, ".")
		return cfg, err
	}
	return LoadFrom(path)
}

// defaultIndexPath places the library index in dir unless a path is configured.
func defaultIndexPath(cfg *AppConfig, dir string) {
	if cfg.Index.Path != "" {
		return
	}
	if abs, err := filepath.Abs(dir); err == nil {
		cfg.Index.Path = filepath.Join(abs, indexFileName)
	}
}

// LoadFrom is Load for an explicit file. A missing file yields the defaults;
// a file that is present but not valid YAML is an error.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	defaultIndexPath(&cfg, filepath.Dir(path))
	return cfg, nil
}

// Save writes the user config YAML to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// mergeInto copies file values over the defaults. src is expected to have been
// unmarshalled on top of Defaults(), so booleans absent from the file keep
// their default value.
func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// logging
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
	// conversion
	dst.Convert.Emphasis = src.Convert.Emphasis
	dst.Convert.PageBreaks = src.Convert.PageBreaks
	// pdf
	if p := normalizePaper(src.PDF.Paper); p != "" {
		dst.PDF.Paper = p
	}
	if src.PDF.FontSize > 0 {
		dst.PDF.FontSize = src.PDF.FontSize
	}
	// index
	dst.Index.Enabled = src.Index.Enabled
	if strings.TrimSpace(src.Index.Path) != "" {
		dst.Index.Path = strings.TrimSpace(src.Index.Path)
	}
}

func normalizePaper(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "letter":
		return "Letter"
	case "a4":
		return "A4"
	}
	return ""
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmphasis)); v != "" {
		cfg.Convert.Emphasis = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPageBreaks)); v != "" {
		cfg.Convert.PageBreaks = parseBool(v)
	}
	if p := normalizePaper(os.Getenv(EnvPDFPaper)); p != "" {
		cfg.PDF.Paper = p
	}
	if v := strings.TrimSpace(os.Getenv(EnvPDFFont)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.PDF.FontSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvIndex)); v != "" {
		cfg.Index.Enabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvIndexPath)); v != "" {
		cfg.Index.Path = v
	}
}

var envKeys = map[string]string{
	"logging.level":       EnvLogLevel,
	"logging.format":      EnvLogFormat,
	"logging.source":      EnvLogSource,
	"logging.file":        EnvLogFile,
	"convert.emphasis":    EnvEmphasis,
	"convert.page_breaks": EnvPageBreaks,
	"pdf.paper":           EnvPDFPaper,
	"pdf.font_size":       EnvPDFFont,
	"index.enabled":       EnvIndex,
	"index.path":          EnvIndexPath,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
