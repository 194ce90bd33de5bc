package main

import (
	"fmt"
	"io"
	"strings"

	"talktimer/internal/audio"
	"talktimer/internal/i18n"
	"talktimer/internal/platform"
	"talktimer/internal/storage"
	"talktimer/internal/ui/preferences"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "talktimer"
	appID     = "com.talktimer.app"
	envPrefix = "TALKTIMER"
)

// environment is the state shared by the GUI and terminal hosts.
type environment struct {
	logger   *log.Logger
	store    *storage.Store
	settings preferences.Settings
	catalog  *i18n.Catalog
}

func newRootCmd() *cobra.Command {
	config := viper.New()

	cmd := &cobra.Command{
		Use:   "talktimer",
		Short: "Segmented presentation timer with chimes",
		Long: heredoc.Doc(`
			Talk Timer paces a talk through a sequence of sections. Each section
			end rings a chime whose strength grows with the section number, and
			the timer keeps counting into overtime once the last marker passes.
		`),
		Example: heredoc.Doc(`
			# Open the timer window
			$ talktimer

			# Open it in English with the chime muted
			$ talktimer --lang en --mute

			# Run a 10/5/5 minute schedule in the terminal
			$ talktimer run --durations 10m,5m,5m --bell
		`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(config, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runGUI(env)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config-dir", "", "Directory holding settings.yaml (default is the user config dir)")
	flags.String("lang", "", "Interface language: ja or en (default is the saved setting)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Float64("volume", 1, "Chime volume between 0 and 1 (default is the saved setting)")
	flags.Bool("mute", false, "Silence chimes (default is the saved setting)")

	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()
	cobra.CheckErr(config.BindPFlags(flags))

	cmd.AddCommand(newRunCmd(config))
	return cmd
}

// loadEnvironment builds the logger, reads saved settings and applies flag or
// environment overrides. A broken settings file is logged, not fatal.
func loadEnvironment(config *viper.Viper, logOutput io.Writer) (*environment, error) {
	logger := log.NewWithOptions(logOutput, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
	})
	level, err := log.ParseLevel(config.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	dir, err := resolveConfigDir(config.GetString("config-dir"))
	if err != nil {
		return nil, err
	}
	store := storage.New(dir)
	settings, err := store.LoadSettings()
	if err != nil {
		logger.Warn("load settings, using defaults", "path", store.Path(), "error", err)
	}
	applyOverrides(config, &settings, logger)

	catalog, err := i18n.New(settings.Language)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	logger.Debug("environment ready", "config_dir", dir, "language", catalog.Language())
	return &environment{
		logger:   logger,
		store:    store,
		settings: settings,
		catalog:  catalog,
	}, nil
}

func resolveConfigDir(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return platform.ExpandDir(flagValue)
	}
	return platform.ConfigDir(appName)
}

func applyOverrides(config *viper.Viper, settings *preferences.Settings, logger *log.Logger) {
	if lang := config.GetString("lang"); lang != "" {
		if i18n.Supported(lang) {
			settings.Language = lang
		} else {
			logger.Warn("unsupported language ignored", "lang", lang)
		}
	}
	if config.IsSet("volume") {
		settings.Volume = audio.ClampVolume(config.GetFloat64("volume"))
	}
	if config.IsSet("mute") {
		settings.Muted = config.GetBool("mute")
	}
}
