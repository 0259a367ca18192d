// Package config loads picker configuration: environment defaults via
// viper, command-line flags via pflag, and per-sport selector defaults
// filled in for any knob the user did not set.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mikehipps/simple-dfs/internal/scoring"
)

// Config is the resolved runtime configuration for one picker run.
type Config struct {
	Sport          string
	LineupCSV      string
	ProjectionsCSV string

	NumLineups       int
	CapPct           float64
	MaxRepeat        int
	MaxRepeatLimit   int
	MinUsagePct      float64
	BreadthPenalty   float64
	SelectionWindow  int
	StalledThreshold int
	WProj            float64
	WCorr            float64
	WUniq            float64
	WChalk           float64
	Seed             int64

	OutDir    string
	OutPrefix string
	LogLevel  string
	Env       string

	flags *pflag.FlagSet
}

// IsDevelopment reports whether the run is in a development environment.
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Env) == "development"
}

// Load parses args (without the program name) into a Config. Selector
// knobs left at their flag defaults are later overwritten by the
// sport's defaults via ApplyDefaults.
func Load(args []string) (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("OUT_DIR", "picks")
	viper.SetDefault("SPORT", "generic")
	viper.AutomaticEnv()

	// A missing .env file is fine; any other read error is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: viper.GetString("ENV"),
	}

	fs := pflag.NewFlagSet("picker", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Sport, "sport", "s", viper.GetString("SPORT"), "Sport key selecting the correlation scorer")
	fs.IntVar(&cfg.NumLineups, "n", 0, "How many lineups to select")
	fs.Float64Var(&cfg.CapPct, "cap", 0, "Max exposure per player (percent)")
	fs.IntVar(&cfg.MaxRepeat, "max-repeat", 0, "Initial max shared players between lineups")
	fs.IntVar(&cfg.MaxRepeatLimit, "max-repeat-limit", 0, "Maximum overlap after relaxations")
	fs.Float64Var(&cfg.MinUsagePct, "min-usage-pct", 0, "Prune players below this pool usage percent")
	fs.Float64Var(&cfg.BreadthPenalty, "breadth-penalty", 0, "Penalty factor for near-cap players")
	fs.IntVar(&cfg.SelectionWindow, "selection-window", 0, "Top candidate window per sweep")
	fs.IntVar(&cfg.StalledThreshold, "stalled-threshold", 0, "Failed sweeps before relaxing overlap")
	fs.Float64Var(&cfg.WProj, "w-proj", 0, "Weight for projection")
	fs.Float64Var(&cfg.WCorr, "w-corr", 0, "Weight for correlation bonus")
	fs.Float64Var(&cfg.WUniq, "w-uniq", 0, "Weight for uniqueness")
	fs.Float64Var(&cfg.WChalk, "w-chalk", 0, "Penalty weight for chalkiness")
	fs.Int64Var(&cfg.Seed, "seed", 0, "RNG seed for deterministic ranking")
	fs.StringVar(&cfg.OutPrefix, "out-prefix", "", "Filename prefix for outputs (default derived from lineup CSV)")
	fs.StringVar(&cfg.OutDir, "out-dir", viper.GetString("OUT_DIR"), "Directory for outputs")
	fs.StringVar(&cfg.LogLevel, "log-level", viper.GetString("LOG_LEVEL"), "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	positional := fs.Args()
	if len(positional) > 0 {
		cfg.LineupCSV = positional[0]
	}
	if len(positional) > 1 {
		cfg.ProjectionsCSV = positional[1]
	}
	cfg.Sport = strings.ToLower(cfg.Sport)
	cfg.flags = fs
	return cfg, nil
}

// ApplyDefaults fills every selector knob the user did not set on the
// command line from the sport's defaults.
func (c *Config) ApplyDefaults(d scoring.Defaults) {
	set := func(name string) bool {
		return c.flags != nil && c.flags.Changed(name)
	}
	if !set("n") {
		c.NumLineups = d.NumLineups
	}
	if !set("cap") {
		c.CapPct = d.CapPct
	}
	if !set("max-repeat") {
		c.MaxRepeat = d.MaxRepeat
	}
	if !set("max-repeat-limit") {
		c.MaxRepeatLimit = d.MaxRepeatLimit
	}
	if !set("min-usage-pct") {
		c.MinUsagePct = d.MinUsagePct
	}
	if !set("breadth-penalty") {
		c.BreadthPenalty = d.BreadthPenalty
	}
	if !set("selection-window") {
		c.SelectionWindow = d.SelectionWindow
	}
	if !set("stalled-threshold") {
		c.StalledThreshold = d.StalledThreshold
	}
	if !set("w-proj") {
		c.WProj = d.Weights.Projection
	}
	if !set("w-corr") {
		c.WCorr = d.Weights.Correlation
	}
	if !set("w-uniq") {
		c.WUniq = d.Weights.Uniqueness
	}
	if !set("w-chalk") {
		c.WChalk = d.Weights.Chalk
	}
}

// Weights returns the resolved composite-score weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Projection:  c.WProj,
		Correlation: c.WCorr,
		Uniqueness:  c.WUniq,
		Chalk:       c.WChalk,
	}
}
