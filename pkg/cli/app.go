package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mchmarny/drafttag/pkg/config"
	"github.com/mchmarny/drafttag/pkg/logging"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const appName = "drafttag"

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	configFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to a YAML config file (optional)",
	}

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	logLevelFlag = &urfave.StringFlag{
		Name:  "log-level",
		Usage: "Log level [debug, info, warn, error]",
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefault("info")

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:            appName,
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:           "Tag NHL draft records with derived features and rule-based weak labels",
		HideHelpCommand: true,
		Flags: []urfave.Flag{
			configFlag,
			debugFlag,
			logLevelFlag,
		},
		Commands: []*urfave.Command{
			tagCmd,
			authCmd,
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			level := cmd.String(logLevelFlag.Name)
			if cmd.Bool(debugFlag.Name) {
				level = "debug"
			}
			if level != "" {
				logging.SetDefault(level)
			}
			return ctx, nil
		},
		Action: cmdTag,
	}
}

// loadConfig reads the config and applies command line overrides.
func loadConfig(cmd *urfave.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(configFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if !cmd.IsSet(logLevelFlag.Name) && !cmd.Bool(debugFlag.Name) {
		logging.SetDefault(cfg.LogLevel)
	}

	for name, target := range map[string]*string{
		inputFlag.Name:     &cfg.Input,
		outputFlag.Name:    &cfg.Output,
		formatFlag.Name:    &cfg.Format,
		delimiterFlag.Name: &cfg.Delimiter,
	} {
		if cmd.IsSet(name) {
			*target = cmd.String(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatYAML:
		return yaml.NewEncoder(w).Encode(v)
	default:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	}
}
