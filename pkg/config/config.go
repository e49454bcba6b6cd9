// Package config loads run settings from defaults, an optional YAML file, an
// optional .env file and environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/mchmarny/drafttag/pkg/draft"
	"github.com/spf13/viper"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	InputDefault  = "nhldraft.csv"
	OutputDefault = "nhldraft_tagged.csv"
)

// Formats lists the supported summary formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// keys maps config keys to the environment variables that set them.
var keys = map[string]string{
	"input":          "NHL_DRAFT_CSV",
	"output":         "NHL_DRAFT_OUT_CSV",
	"token":          "NHL_DRAFT_TOKEN",
	"delimiter":      "DRAFTTAG_DELIMITER",
	"format":         "DRAFTTAG_FORMAT",
	"log_level":      "DRAFTTAG_LOG_LEVEL",
	"train_max_year": "DRAFTTAG_TRAIN_MAX_YEAR",
	"success_games":  "DRAFTTAG_SUCCESS_GAMES",
	"min_teams":      "DRAFTTAG_MIN_TEAMS",
}

// Config holds all settings of a tagging run.
type Config struct {
	Input      string
	Output     string
	InputToken string
	Delimiter  string
	Format     string
	LogLevel   string
	Options    draft.Options
}

// Load reads configuration. file is an optional YAML config file.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables only")
	}

	v := viper.New()
	v.SetDefault("input", InputDefault)
	v.SetDefault("output", OutputDefault)
	v.SetDefault("delimiter", ",")
	v.SetDefault("format", FormatText)
	v.SetDefault("log_level", "info")
	v.SetDefault("train_max_year", draft.TrainMaxYearDefault)
	v.SetDefault("success_games", draft.SuccessGamesDefault)
	v.SetDefault("min_teams", draft.MinTeamsDefault)

	for k, env := range keys {
		if err := v.BindEnv(k, env); err != nil {
			return nil, fmt.Errorf("binding %s to %s: %w", k, env, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
		slog.Debug("config file loaded", "path", file)
	}

	return &Config{
		Input:      v.GetString("input"),
		Output:     v.GetString("output"),
		InputToken: v.GetString("token"),
		Delimiter:  v.GetString("delimiter"),
		Format:     v.GetString("format"),
		LogLevel:   v.GetString("log_level"),
		Options: draft.Options{
			TrainMaxYear: v.GetInt("train_max_year"),
			SuccessGames: v.GetFloat64("success_games"),
			MinTeams:     v.GetInt("min_teams"),
		},
	}, nil
}

// Validate checks the settings before a run.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input location required")
	}
	if c.Output == "" {
		return errors.New("output location required")
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character: %q", c.Delimiter)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unsupported format %q, expected one of %v", c.Format, Formats)
	}
	if c.Options.SuccessGames <= 0 {
		return fmt.Errorf("success games must be positive: %v", c.Options.SuccessGames)
	}
	if c.Options.MinTeams <= 0 {
		return fmt.Errorf("min teams must be positive: %d", c.Options.MinTeams)
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
