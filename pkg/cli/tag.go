package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/drafttag/pkg/config"
	"github.com/mchmarny/drafttag/pkg/data"
	"github.com/mchmarny/drafttag/pkg/draft"
	"github.com/mchmarny/drafttag/pkg/net"
	"github.com/mchmarny/drafttag/pkg/table"
	urfave "github.com/urfave/cli/v3"
)

var (
	inputFlag = &urfave.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "Input table path or http(s) URL (env: NHL_DRAFT_CSV)",
	}

	outputFlag = &urfave.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output path; .db/.sqlite/.sqlite3 writes SQLite, anything else CSV (env: NHL_DRAFT_OUT_CSV)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Summary format [text, json, yaml] (env: DRAFTTAG_FORMAT)",
	}

	delimiterFlag = &urfave.StringFlag{
		Name:  "delimiter",
		Usage: "Input field delimiter (env: DRAFTTAG_DELIMITER)",
	}

	tagCmd = &urfave.Command{
		Name:  "tag",
		Usage: "Annotate draft records and write the tagged table",
		UsageText: `drafttag tag                                        # use NHL_DRAFT_CSV / NHL_DRAFT_OUT_CSV
   drafttag tag -i nhldraft.csv -o out/tagged.csv      # explicit paths
   drafttag tag -o tagged.db --format json             # write SQLite, JSON summary`,
		HideHelpCommand: true,
		Flags: []urfave.Flag{
			inputFlag,
			outputFlag,
			formatFlag,
			delimiterFlag,
		},
		Action: cmdTag,
	}
)

func cmdTag(ctx context.Context, cmd *urfave.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.InputToken == "" && net.IsURL(cfg.Input) {
		cfg.InputToken = getInputToken()
	}

	return runTag(ctx, cfg, os.Stdout)
}

// runTag runs the pipeline for cfg and prints the summary to w.
func runTag(ctx context.Context, cfg *config.Config, w io.Writer) error {
	r, err := draft.New(cfg.Options).Run(newSource(ctx, cfg), newSink(cfg))
	if err != nil {
		return err
	}

	r.Input = cfg.Input
	r.Output = cfg.Output
	if abs, absErr := filepath.Abs(cfg.Output); absErr == nil {
		r.Output = abs
	}

	slog.Debug("run complete", "run_id", r.RunID, "coverage", r.Coverage)

	if cfg.Format == config.FormatText {
		if err := r.WriteText(w); err != nil {
			return fmt.Errorf("error printing summary: %w", err)
		}
		return nil
	}

	if err := encode(w, cfg.Format, r); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func newSource(ctx context.Context, cfg *config.Config) draft.Source {
	delim := cfg.DelimiterRune()

	if net.IsURL(cfg.Input) {
		return draft.SourceFunc(func() (*table.Table, error) {
			b, err := net.Fetch(ctx, cfg.Input, cfg.InputToken)
			if err != nil {
				return nil, err
			}
			return table.Parse(b, delim)
		})
	}

	return draft.SourceFunc(func() (*table.Table, error) {
		return table.Load(cfg.Input, delim)
	})
}

func newSink(cfg *config.Config) draft.Sink {
	if data.IsDBPath(cfg.Output) {
		return &data.SQLiteSink{Path: cfg.Output, Table: data.TableName}
	}
	return draft.SinkFunc(func(t *table.Table) error {
		return table.WriteCSV(cfg.Output, t)
	})
}
