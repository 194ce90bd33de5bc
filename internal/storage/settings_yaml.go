package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"talktimer/internal/audio"
	"talktimer/internal/core/model"
	"talktimer/internal/i18n"
	"talktimer/internal/ui/preferences"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// legacyDefaultSeconds is the default shipped before the 10 minute talk slot.
var legacyDefaultSeconds = []float64{900, 300, 300}

type yamlSettings struct {
	DurationsSeconds []float64 `yaml:"durations_seconds"`
	Volume           *float64  `yaml:"volume,omitempty"`
	Muted            bool      `yaml:"muted"`
	Language         string    `yaml:"language,omitempty"`
}

// Store persists preferences in a YAML file inside Dir.
type Store struct {
	Dir string
	fs  afero.Fs
}

// New returns a Store rooted at dir on the OS filesystem.
func New(dir string) *Store {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs returns a Store backed by fs.
func NewWithFs(fs afero.Fs, dir string) *Store {
	return &Store{Dir: dir, fs: fs}
}

// Path returns the settings file location.
func (store *Store) Path() string {
	return filepath.Join(store.Dir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
// On a parse error the defaults are returned along with the error.
func (store *Store) LoadSettings() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := afero.ReadFile(store.fs, store.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func (store *Store) SaveSettings(settings preferences.Settings) error {
	if err := store.fs.MkdirAll(store.Dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	volume := audio.ClampVolume(settings.Volume)
	fileData := yamlSettings{
		DurationsSeconds: model.DurationsToSeconds(model.SanitizeDurations(settings.Durations)),
		Volume:           &volume,
		Muted:            settings.Muted,
		Language:         settings.Language,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := afero.WriteFile(store.fs, store.Path(), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if len(fileData.DurationsSeconds) > 0 && !slices.Equal(fileData.DurationsSeconds, legacyDefaultSeconds) {
		settings.Durations = preferences.EnsureMinimumDurations(model.SecondsToDurations(fileData.DurationsSeconds))
	}
	if fileData.Volume != nil {
		settings.Volume = audio.ClampVolume(*fileData.Volume)
	}
	if i18n.Supported(fileData.Language) {
		settings.Language = fileData.Language
	}
	settings.Muted = fileData.Muted
}
