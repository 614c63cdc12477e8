package assist

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kakuhq/kaku-assist/internal/logging"
)

var configLog = logging.ForComponent(logging.CompConfig)

// SettingsFileName is the TOML settings file under the state directory.
const SettingsFileName = "assistant.toml"

// DefaultModel is used when the settings file specifies none.
const DefaultModel = "gpt-5-mini"

// DefaultBaseURL is the default chat-completions API root.
const DefaultBaseURL = "https://api.vivgrid.com/v1"

// RequestTimeout bounds the worker's network call. Fixed, not user-tunable.
const RequestTimeout = 30 * time.Second

// Settings is the user-facing assistant configuration.
type Settings struct {
	// Enabled turns analysis on/off. Default: true (nil = unset).
	Enabled *bool `toml:"enabled"`

	// BaseURL is the chat-completions API root URL.
	BaseURL string `toml:"base_url"`

	// APIKey is the provider API key. Absence is a valid, inert state.
	APIKey string `toml:"api_key"`

	// Model is the model id, e.g. "gpt-5-mini" or "DeepSeek-V3.2".
	Model string `toml:"model"`
}

// IsEnabled returns the enabled flag, defaulting to true.
func (s Settings) IsEnabled() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Ready reports whether analysis requests may be made at all.
func (s Settings) Ready() bool {
	return s.IsEnabled() && s.APIKey != ""
}

// SettingsPath returns the path to assistant.toml.
func SettingsPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// LoadSettings reads assistant.toml and applies defaults. It never fails:
// a missing or unparsable file yields the defaults (enabled, no API key).
// Called once per failure event so live edits apply without a restart.
func LoadSettings() Settings {
	var s Settings

	path, err := SettingsPath()
	if err != nil {
		return applyDefaults(s)
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		if !os.IsNotExist(err) {
			configLog.Warn("settings_parse_failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		return applyDefaults(Settings{})
	}

	return applyDefaults(s)
}

func applyDefaults(s Settings) Settings {
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	return s
}

// defaultSettingsTemplate is written on first run. The API key is commented
// out so the assistant stays inert until the user configures one.
func defaultSettingsTemplate() string {
	return fmt.Sprintf(`# kaku-assist configuration
# enabled: true enables command analysis suggestions; false disables requests.
# api_key: provider API key, example: "sk-xxxx".
# model: model id, example: "%s" or "DeepSeek-V3.2".
# base_url: chat-completions API root URL.

enabled = true
# api_key = "<your_api_key>"
model = "%s"
base_url = "%s"
`, DefaultModel, DefaultModel, DefaultBaseURL)
}

// EnsureSettingsFile creates assistant.toml with the default template if it
// does not exist, returning its path.
func EnsureSettingsFile() (string, error) {
	path, err := SettingsPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(defaultSettingsTemplate()), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// SaveSettings writes the settings atomically (tmp file + rename) so a
// crash mid-write cannot corrupt the file a live daemon may be reading.
func SaveSettings(s Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if s.Enabled == nil {
		enabled := true
		s.Enabled = &enabled
	}

	var buf bytes.Buffer
	buf.WriteString("# kaku-assist configuration\n")
	buf.WriteString("# Edit this file or run `kaku-assist config`\n\n")
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write temp settings: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize settings save: %w", err)
	}
	return nil
}
