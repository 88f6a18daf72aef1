// Package config loads the quest-count configuration: the counting window, excluded quests,
// location synonyms, roster layout and fetch settings.
//
// Defaults describe the GDG Online Cloud Study Jams Vietnam 2019 event, so running without a
// config file reproduces that event's counting rules.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vietkubers/quest-count/internal/quest"
	"github.com/vietkubers/quest-count/internal/ranking"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the default config path
const EnvConfigPath = "QUEST_COUNT_CONFIG"

// Config holds all quest-count configuration.
type Config struct {
	Window         WindowConfig        `yaml:"window"`
	ExcludedQuests []string            `yaml:"excluded_quests"`
	Locations      map[string][]string `yaml:"locations"` // hanoi, danang, hcm
	Roster         RosterConfig        `yaml:"roster"`
	Columns        ColumnsConfig       `yaml:"columns"`
	Fetch          FetchConfig         `yaml:"fetch"`
	Output         OutputConfig        `yaml:"output"`
	LogLevel       string              `yaml:"log_level"`
}

// WindowConfig is the inclusive counting window, dates as YYYY-MM-DD
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// RosterConfig describes where the participant roster comes from.
type RosterConfig struct {
	Sheet        string `yaml:"sheet"`
	GDocsFileID  string `yaml:"gdocs_file_id"`
	GDocsSheetID string `yaml:"gdocs_sheet_id"`
	DownloadPath string `yaml:"download_path"`
}

// ColumnsConfig names the sheet columns that receive results on write-back.
type ColumnsConfig struct {
	LegalQuests string `yaml:"legal_quests"`
	All         string `yaml:"all"`
	Hanoi       string `yaml:"hanoi"`
	Danang      string `yaml:"danang"`
	HCM         string `yaml:"hcm"`
}

// FetchConfig configures profile page fetching.
type FetchConfig struct {
	Timeout   string `yaml:"timeout"`
	Workers   int    `yaml:"workers"`
	UserAgent string `yaml:"user_agent"`
}

// OutputConfig configures where reports go.
type OutputConfig struct {
	TextPath string `yaml:"text_path"`
	DataDir  string `yaml:"data_dir"`
}

// GDocsExportURL is the Google Docs spreadsheet export endpoint
const GDocsExportURL = "https://docs.google.com/feeds/download/spreadsheets/Export?key=%s&exportFormat=xlsx&gid=%s"

// DefaultConfig returns the configuration of the 2019 event.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Start: "2019-07-28",
			End:   "2019-08-30",
		},
		ExcludedQuests: []string{"GCP Essentials"},
		Locations: map[string][]string{
			string(ranking.RegionHanoi):  ranking.DefaultSynonyms[ranking.RegionHanoi],
			string(ranking.RegionDanang): ranking.DefaultSynonyms[ranking.RegionDanang],
			string(ranking.RegionHCM):    ranking.DefaultSynonyms[ranking.RegionHCM],
		},
		Roster: RosterConfig{
			Sheet:        "Results",
			GDocsFileID:  "1VE2sH6zePhdwaSDir9ucUoXPYTXIjIR3eRFKQ-IVZcw",
			GDocsSheetID: "241580121",
			DownloadPath: "result.xlsx",
		},
		Columns: ColumnsConfig{
			LegalQuests: "J",
			All:         "K",
			Hanoi:       "L",
			Danang:      "M",
			HCM:         "N",
		},
		Fetch: FetchConfig{
			Timeout: "30s",
			Workers: 1,
		},
		Output: OutputConfig{
			TextPath: "result.txt",
			DataDir:  ".",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := c.QuestWindow(); err != nil {
		return err
	}
	if c.Fetch.Workers < 1 {
		return fmt.Errorf("fetch.workers must be at least 1, got %d", c.Fetch.Workers)
	}
	if _, err := time.ParseDuration(c.Fetch.Timeout); err != nil {
		return fmt.Errorf("invalid fetch.timeout %q: %w", c.Fetch.Timeout, err)
	}
	for name := range c.Locations {
		region := ranking.Region(name)
		if !region.Known() {
			return fmt.Errorf("unknown location group %q (want hanoi, danang or hcm)", name)
		}
	}
	if strings.TrimSpace(c.Roster.Sheet) == "" {
		return fmt.Errorf("roster.sheet is required")
	}
	columns := []struct {
		key   string
		value string
	}{
		{"legal_quests", c.Columns.LegalQuests},
		{"all", c.Columns.All},
		{"hanoi", c.Columns.Hanoi},
		{"danang", c.Columns.Danang},
		{"hcm", c.Columns.HCM},
	}
	for _, col := range columns {
		if _, err := excelize.ColumnNameToNumber(col.value); err != nil {
			return fmt.Errorf("invalid columns.%s %q: %w", col.key, col.value, err)
		}
	}
	return nil
}

// QuestWindow parses the configured window
func (c *Config) QuestWindow() (quest.Window, error) {
	start, err := time.Parse(quest.DateLayout, strings.TrimSpace(c.Window.Start))
	if err != nil {
		return quest.Window{}, fmt.Errorf("invalid window.start %q: %w", c.Window.Start, err)
	}
	end, err := time.Parse(quest.DateLayout, strings.TrimSpace(c.Window.End))
	if err != nil {
		return quest.Window{}, fmt.Errorf("invalid window.end %q: %w", c.Window.End, err)
	}
	return quest.NewWindow(start, end)
}

// Rules returns the eligibility rules for the configured window and exclusions
func (c *Config) Rules() (quest.Rules, error) {
	w, err := c.QuestWindow()
	if err != nil {
		return quest.Rules{}, err
	}
	return quest.NewRules(w, c.ExcludedQuests), nil
}

// LocationMatcher builds the location classifier from the configured synonyms
func (c *Config) LocationMatcher() ranking.Locations {
	synonyms := make(map[ranking.Region][]string, len(c.Locations))
	for name, list := range c.Locations {
		synonyms[ranking.Region(name)] = list
	}
	return ranking.NewLocations(synonyms)
}

// GetFetchTimeout returns the per-profile fetch timeout
func (c *Config) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// DownloadURL returns the export URL of the roster spreadsheet
func (c *Config) DownloadURL() string {
	return fmt.Sprintf(GDocsExportURL, c.Roster.GDocsFileID, c.Roster.GDocsSheetID)
}
