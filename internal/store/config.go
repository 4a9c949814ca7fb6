package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config is the small global preferences file at ~/.taskfocus/config.json.
// It is separate from the task snapshot and, unlike the snapshot, written
// atomically.
type Config struct {
	// DataFile overrides where the task snapshot lives.
	DataFile string `json:"dataFile,omitempty"`

	// FocusCount sets how many top suggestions the daily focus prompt
	// preselects. Zero means the built-in default.
	FocusCount int `json:"focusCount,omitempty"`
}

// PreselectCount resolves FocusCount to an effective value.
func (c *Config) PreselectCount() int {
	if c.FocusCount > 0 {
		return c.FocusCount
	}
	return FocusPreselect
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskfocus).
	if v := strings.TrimSpace(os.Getenv("TASKFOCUS_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskfocus"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep a copy of the previous config to make
	// recovery from accidental overwrites easier. Ignore errors to avoid
	// blocking normal usage.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp file name so concurrent writers cannot clobber each other.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// ResolveDataFile picks the snapshot location: the explicit override wins,
// then TASKFOCUS_DATA_FILE, then the configured dataFile, then tasks.json
// under the config dir.
func ResolveDataFile(override string) (string, error) {
	if v := strings.TrimSpace(override); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("TASKFOCUS_DATA_FILE")); v != "" {
		return v, nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(cfg.DataFile); v != "" {
		return v, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tasks.json"), nil
}
