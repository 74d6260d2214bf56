package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/doselog/doselog/internal/cache"
	"github.com/doselog/doselog/internal/logging"
	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/pipeline"
	"github.com/doselog/doselog/internal/registry"
	"github.com/doselog/doselog/internal/validate"
)

var (
	cfgFile  string
	verbose  bool
	dataPath string
	noCache  bool
	asJSON   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "doselog",
	Short: "Doselog - structured analysis of plain-text dose logs",
	Long: `Doselog parses journals of timestamped notes into structured dose
records and analyzes them.

A log is ordinary text: day headers like "# 2018-04-14" followed by
timed lines like "07:01 - 100mcg LSD". Doselog extracts the doses,
folds alias spellings into canonical substance names, and answers
questions about them: what was taken, how much in total, and which
stretches of time were under a substance's effect.

Lines that do not parse are skipped with a warning, never fatal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("doselog v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/doselog/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "log file or directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the parsed-source cache")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data.path", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "doselog"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DOSELOG_*
	viper.SetEnvPrefix("DOSELOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// app bundles everything a command needs after configuration is resolved.
type app struct {
	cfg     *model.Config
	reg     *registry.Registry
	pipe    *pipeline.Pipeline
	log     *zap.Logger
	counter *logging.Counter
}

// newApp resolves configuration (defaults, config file, env, flags) and
// wires the registry, cache, and pipeline.
func newApp() (*app, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	log, counter := logging.New(verbose || cfg.Output.Verbose)

	entries := make([]validate.Substance, 0, len(cfg.Substances))
	for _, s := range cfg.Substances {
		entries = append(entries, validate.Substance{Name: s.Name, Aliases: s.Aliases})
	}
	issues := validate.Substances(entries)
	issues = append(issues, validate.Groups(cfg.Groups, entries)...)
	for _, issue := range issues {
		log.Warn("configuration issue", zap.String("detail", issue.String()))
	}

	reg := registry.New(cfg.Substances)

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(
			cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute),
			cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL),
		)
	}

	return &app{
		cfg:     cfg,
		reg:     reg,
		pipe:    pipeline.New(reg, store, cfg.Cache.TTL, log),
		log:     log,
		counter: counter,
	}, nil
}

// loadDataset loads the configured data path. The path must be set by flag,
// env, or config file.
func (a *app) loadDataset() (*pipeline.Dataset, error) {
	if a.cfg.Data.Path == "" {
		return nil, fmt.Errorf("no data path configured (use --data, DOSELOG_DATA_PATH, or data.path in the config file)")
	}
	return a.pipe.Load(a.cfg.Data.Path)
}

// reportWarnings prints the skipped-line count at the end of a run so quiet
// runs still surface that input was dropped.
func (a *app) reportWarnings() {
	if n := a.counter.Warnings(); n > 0 {
		fmt.Fprintf(os.Stderr, "doselog: %d warning(s) while processing input\n", n)
	}
}

func (a *app) renderer() *pipeline.Renderer {
	return pipeline.NewRenderer(os.Stdout, asJSON)
}
