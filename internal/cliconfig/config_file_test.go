package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				DataFile:    "/data/routines.db",
				RemoteURL:   "https://x.supabase.co",
				RemoteKey:   "anon",
				PostgresDSN: "postgres://localhost/practice",
				Listen:      ":9000",
				HTTPTimeout: "30s",
				LogLevel:    "debug",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				DataFile:    "/data/routines.db",
				RemoteURL:   "https://x.supabase.co",
				RemoteKey:   "anon",
				PostgresDSN: "postgres://localhost/practice",
				Listen:      ":9000",
				HTTPTimeout: 30 * time.Second,
				LogLevel:    "debug",
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				DataFile: "/config/routines.json",
				LogLevel: "warn",
			},
			changed: map[string]bool{"data-file": true},
			initial: Config{
				DataFile: "/flag/routines.json",
				LogLevel: "info",
			},
			expected: Config{
				DataFile: "/flag/routines.json", // unchanged because flag was set
				LogLevel: "warn",
			},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{HTTPTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
data_file = "/tmp/routines.json"
remote_url = "https://x.supabase.co"
remote_key = "anon"
http_timeout = "5s"
log_level = "warn"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.DataFile != "/tmp/routines.json" {
		t.Errorf("DataFile = %v, want /tmp/routines.json", fc.DataFile)
	}
	if fc.RemoteURL != "https://x.supabase.co" {
		t.Errorf("RemoteURL = %v, want https://x.supabase.co", fc.RemoteURL)
	}
	if fc.RemoteKey != "anon" {
		t.Errorf("RemoteKey = %v, want anon", fc.RemoteKey)
	}
	if fc.HTTPTimeout != "5s" {
		t.Errorf("HTTPTimeout = %v, want 5s", fc.HTTPTimeout)
	}
	if fc.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn", fc.LogLevel)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
data_file = "/test"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".practicepicker") {
		t.Errorf("DefaultConfigPath() = %v, should contain .practicepicker", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
