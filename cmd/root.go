package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/tincture/internal/config"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/paths"
)

var (
	version   = "dev"
	cfgFile   string
	dirFlag   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tincture",
	Short: "Classification style settings for semantic highlighting",
	Long: `Tincture keeps per-language classification styles (colors, weight,
decorations, size and enablement) in a sparse settings document and
reconciles them with the classification catalog and the ambient default
formatting.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: startLogging,
	PersistentPostRun: func(*cobra.Command, []string) { stopLogging() },
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .tincture/config.yaml or ~/.config/tincture/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "",
		"state directory or project directory containing .tincture")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log to <dir>/debug.log (or $TINCTURE_LOG, filtered by $TINCTURE_LOG_LEVEL)")

	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("ambient.foreground", defaults.Ambient.Foreground)
	viper.SetDefault("ambient.font_size", defaults.Ambient.FontSize)
	viper.SetDefault("presets", defaults.Presets)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.keep", defaults.History.Keep)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("flags", defaults.Flags)
	viper.SetEnvPrefix("tincture")
	viper.AutomaticEnv()

	localConfig := filepath.Join(paths.ResolveDir(dirFlag), paths.ConfigFile)
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. <dir>/config.yaml
		// 2. ~/.config/tincture/config.yaml (user config)
		if _, err := os.Stat(localConfig); err == nil {
			viper.SetConfigFile(localConfig)
		} else {
			viper.AddConfigPath(paths.UserConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at <dir>/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfig); writeErr == nil {
				viper.SetConfigFile(localConfig)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

var stopLogging = func() {}

func startLogging(*cobra.Command, []string) error {
	if !debugFlag && os.Getenv("TINCTURE_DEBUG") == "" {
		return nil
	}
	logPath := os.Getenv("TINCTURE_LOG")
	if logPath == "" {
		dir := paths.ResolveDir(cfg.Dir)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
		logPath = paths.LogPath(dir)
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	stopLogging = cleanup
	if lvl := os.Getenv("TINCTURE_LOG_LEVEL"); lvl != "" {
		log.SetMinLevel(log.ParseLevel(lvl))
	}
	log.Info(log.CatConfig, "Tincture starting", "version", version, "config", viper.ConfigFileUsed())
	return nil
}

// configPath returns the config file in use, or the default location.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	return filepath.Join(paths.ResolveDir(cfg.Dir), paths.ConfigFile)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
