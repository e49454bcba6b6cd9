package draft

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mchmarny/drafttag/pkg/table"
)

const (
	TrainMaxYearDefault = 2015
	SuccessGamesDefault = 200
	MinTeamsDefault     = 4
)

// Options holds the tunable thresholds of a run.
type Options struct {
	// TrainMaxYear is the last draft year of the training subset.
	TrainMaxYear int `json:"train_max_year" yaml:"train_max_year"`
	// SuccessGames is the games played threshold of a successful pick.
	SuccessGames float64 `json:"success_games" yaml:"success_games"`
	// MinTeams is the fewest teams with a hit rate needed for quartiles.
	MinTeams int `json:"min_teams" yaml:"min_teams"`
}

func DefaultOptions() Options {
	return Options{
		TrainMaxYear: TrainMaxYearDefault,
		SuccessGames: SuccessGamesDefault,
		MinTeams:     MinTeamsDefault,
	}
}

// Source provides the raw table.
type Source interface {
	Load() (*table.Table, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (*table.Table, error)

func (f SourceFunc) Load() (*table.Table, error) {
	return f()
}

// Sink persists the annotated table.
type Sink interface {
	Write(t *table.Table) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(t *table.Table) error

func (f SinkFunc) Write(t *table.Table) error {
	return f(t)
}

// Pipeline annotates draft records with derived features and weak labels.
type Pipeline struct {
	opts Options
}

func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// ValidateSchema fails fast when a required column is absent.
func ValidateSchema(t *table.Table) error {
	if t == nil {
		return errors.New("table required")
	}
	return t.Require(RequiredColumns...)
}

// Annotate runs the normalize, team quartile, weak label and gold label
// passes over t in that order. Raw columns are never modified.
func (p *Pipeline) Annotate(t *table.Table) (Capabilities, error) {
	if err := ValidateSchema(t); err != nil {
		return Capabilities{}, err
	}
	caps := CapabilitiesOf(t)

	if err := Normalize(t); err != nil {
		return caps, fmt.Errorf("normalizing fields: %w", err)
	}
	slog.Debug("normalized", "rows", t.Len())

	tq := BuildTeamQuartiles(t, caps, p.opts)
	if err := tq.Annotate(t); err != nil {
		return caps, fmt.Errorf("annotating org quartiles: %w", err)
	}
	slog.Debug("team quartiles", "enabled", tq.Enabled())

	if err := LabelWeak(t); err != nil {
		return caps, fmt.Errorf("weak labeling: %w", err)
	}

	if _, err := LabelGold(t, p.opts.SuccessGames); err != nil {
		return caps, fmt.Errorf("gold labeling: %w", err)
	}
	slog.Debug("labeled", "rows", t.Len(), "gold", caps.HasGoldInputs)

	return caps, nil
}

// Run loads the table from src, annotates it, writes it to sink and returns
// the run summary.
func (p *Pipeline) Run(src Source, sink Sink) (*Report, error) {
	if src == nil || sink == nil {
		return nil, errors.New("source and sink required")
	}

	t, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("loading table: %w", err)
	}
	slog.Info("loaded table", "rows", t.Len(), "columns", len(t.Columns), "encoding", t.Encoding)

	caps, err := p.Annotate(t)
	if err != nil {
		return nil, err
	}

	if err := sink.Write(t); err != nil {
		return nil, fmt.Errorf("writing table: %w", err)
	}
	slog.Info("wrote table", "rows", t.Len(), "columns", len(t.Columns))

	r := Summarize(t)
	r.RunID = uuid.NewString()
	r.Encoding = t.Encoding
	r.Capabilities = caps
	return r, nil
}
