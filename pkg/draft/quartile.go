package draft

import (
	"log/slog"
	"math"
	"slices"

	"github.com/mchmarny/drafttag/pkg/table"
)

// Quartile is a team's historical success bucket.
type Quartile string

const (
	QuartileBest  Quartile = "Q1_best"
	QuartileQ2    Quartile = "Q2"
	QuartileQ3    Quartile = "Q3"
	QuartileWorst Quartile = "Q4_worst"
	QuartileNA    Quartile = "NA"
)

// Capabilities describes which optional features the table schema supports.
type Capabilities struct {
	HasTeamQualityInputs bool `json:"has_team_quality_inputs" yaml:"has_team_quality_inputs"`
	HasGoldInputs        bool `json:"has_gold_inputs" yaml:"has_gold_inputs"`
}

// CapabilitiesOf inspects the columns of t once.
func CapabilitiesOf(t *table.Table) Capabilities {
	return Capabilities{
		HasTeamQualityInputs: t.HasAll(ColYear, ColGamesPlayed, ColTeam),
		HasGoldInputs:        t.Has(ColGamesPlayed),
	}
}

// TeamQuartiles maps teams to quartiles of their training-era hit rate.
// The zero value maps every team to NA.
type TeamQuartiles struct {
	rates map[string]float64
	p25   float64
	p50   float64
	p75   float64
}

// success reports whether the games_played cell meets the threshold;
// missing or non-numeric counts as zero games.
func success(gamesPlayed string, threshold float64) bool {
	g, ok := ParseNumber(gamesPlayed)
	if !ok {
		g = 0
	}
	return g >= threshold
}

// BuildTeamQuartiles computes per-team hit rates from records drafted in or
// before opts.TrainMaxYear. It degrades to the all-NA lookup when the schema
// lacks the inputs or fewer than opts.MinTeams teams have a hit rate.
func BuildTeamQuartiles(t *table.Table, caps Capabilities, opts Options) *TeamQuartiles {
	tq := &TeamQuartiles{}
	if !caps.HasTeamQualityInputs {
		slog.Debug("team quality inputs missing, org quartile disabled")
		return tq
	}

	hits := make(map[string]int)
	totals := make(map[string]int)
	for i := range t.Len() {
		year, ok := ParseNumber(t.Value(i, ColYear))
		if !ok || year > float64(opts.TrainMaxYear) {
			continue
		}
		team := t.Value(i, ColTeam)
		if table.IsMissing(team) {
			continue
		}
		totals[team]++
		if success(t.Value(i, ColGamesPlayed), opts.SuccessGames) {
			hits[team]++
		}
	}

	if len(totals) < opts.MinTeams {
		slog.Debug("not enough teams for org quartiles", "teams", len(totals), "min", opts.MinTeams)
		return tq
	}

	tq.rates = make(map[string]float64, len(totals))
	rates := make([]float64, 0, len(totals))
	for team, n := range totals {
		r := float64(hits[team]) / float64(n)
		tq.rates[team] = r
		rates = append(rates, r)
	}
	slices.Sort(rates)

	tq.p25 = percentile(rates, 0.25)
	tq.p50 = percentile(rates, 0.50)
	tq.p75 = percentile(rates, 0.75)

	slog.Debug("org quartiles built", "teams", len(rates), "p25", tq.p25, "p50", tq.p50, "p75", tq.p75)
	return tq
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := float64(len(sorted)-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Enabled reports whether the lookup has any team.
func (tq *TeamQuartiles) Enabled() bool {
	return len(tq.rates) > 0
}

// HitRate returns the training hit rate of team.
func (tq *TeamQuartiles) HitRate(team string) (float64, bool) {
	r, ok := tq.rates[team]
	return r, ok
}

// Classify returns the quartile of team, NA when it has no training hit rate.
func (tq *TeamQuartiles) Classify(team string) Quartile {
	if table.IsMissing(team) {
		return QuartileNA
	}
	r, ok := tq.rates[team]
	if !ok {
		return QuartileNA
	}
	switch {
	case r >= tq.p75:
		return QuartileBest
	case r >= tq.p50:
		return QuartileQ2
	case r >= tq.p25:
		return QuartileQ3
	default:
		return QuartileWorst
	}
}

// Annotate appends org_quartile to every record of t, train and test alike.
func (tq *TeamQuartiles) Annotate(t *table.Table) error {
	values := make([]string, t.Len())
	for i := range values {
		values[i] = string(tq.Classify(t.Value(i, ColTeam)))
	}
	return t.SetColumn(ColOrgQuartile, values)
}
