package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vietkubers/quest-count/internal/quest"
	"github.com/vietkubers/quest-count/internal/ranking"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quest-count.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("Rules() error: %v", err)
	}
	if !rules.Window.Start.Equal(quest.Date(2019, time.July, 28)) || !rules.Window.End.Equal(quest.Date(2019, time.August, 30)) {
		t.Errorf("window = %s", rules.Window)
	}
	if !rules.Excluded["GCP Essentials"] {
		t.Error("GCP Essentials should be excluded by default")
	}

	locs := cfg.LocationMatcher()
	if got := locs.Classify("Hồ Chí Minh"); got != ranking.RegionHCM {
		t.Errorf("Classify(Hồ Chí Minh) = %q", got)
	}

	if cfg.GetFetchTimeout() != 30*time.Second {
		t.Errorf("GetFetchTimeout() = %v", cfg.GetFetchTimeout())
	}
	if !strings.Contains(cfg.DownloadURL(), "key=1VE2sH6zePhdwaSDir9ucUoXPYTXIjIR3eRFKQ-IVZcw") ||
		!strings.Contains(cfg.DownloadURL(), "gid=241580121") {
		t.Errorf("DownloadURL() = %q", cfg.DownloadURL())
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  start: 2020-03-01
  end: 2020-03-31
excluded_quests: ["GCP Essentials", "Baseline: Infrastructure"]
locations:
  hcm: ["saigon", "hồ chí minh"]
fetch:
  workers: 8
  timeout: 5s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	w, err := cfg.QuestWindow()
	if err != nil {
		t.Fatalf("QuestWindow() error: %v", err)
	}
	if !w.Start.Equal(quest.Date(2020, time.March, 1)) {
		t.Errorf("window start = %v", w.Start)
	}
	if len(cfg.ExcludedQuests) != 2 {
		t.Errorf("ExcludedQuests = %v", cfg.ExcludedQuests)
	}
	if cfg.Fetch.Workers != 8 || cfg.GetFetchTimeout() != 5*time.Second {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}

	locs := cfg.LocationMatcher()
	if got := locs.Classify("Saigon"); got != ranking.RegionHCM {
		t.Errorf("Classify(Saigon) = %q, want hcm", got)
	}
	// Unmentioned groups keep their defaults
	if got := locs.Classify("ha noi"); got != ranking.RegionHanoi {
		t.Errorf("Classify(ha noi) = %q, want hanoi", got)
	}
	// Untouched sections keep defaults
	if cfg.Roster.Sheet != "Results" || cfg.Columns.HCM != "N" {
		t.Errorf("roster/columns defaults lost: %+v %+v", cfg.Roster, cfg.Columns)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"inverted window", "window: {start: 2019-08-30, end: 2019-07-28}\n"},
		{"bad date", "window: {start: Jul 28 2019}\n"},
		{"zero workers", "fetch: {workers: 0}\n"},
		{"bad timeout", "fetch: {timeout: soon}\n"},
		{"unknown location group", "locations: {saigon: [sg]}\n"},
		{"empty sheet", "roster: {sheet: \"\"}\n"},
		{"empty column", "columns: {legal_quests: \"\"}\n"},
		{"bad column", "columns: {hcm: \"N1\"}\n"},
		{"not yaml", "window: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.Workers = 4
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Fetch.Workers != 4 {
		t.Errorf("Workers = %d, want 4", loaded.Fetch.Workers)
	}
	if loaded.Window != cfg.Window {
		t.Errorf("Window = %+v, want %+v", loaded.Window, cfg.Window)
	}
}
