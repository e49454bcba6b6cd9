package draft

import (
	"math"
	"testing"

	"github.com/mchmarny/drafttag/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quartileColumns = []string{ColOverallPick, ColPosition, ColTeam, ColYear, ColGamesPlayed}

func quartileTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(quartileColumns, [][]string{
		{"1", "C", "A", "2010", "0"},
		{"2", "C", "A", "2016", "900"},
		{"3", "C", "B", "2011", "250"},
		{"4", "C", "B", "2011", ""},
		{"5", "C", "B", "2012", "10"},
		{"6", "C", "B", "2012", "n/a"},
		{"7", "C", "C", "2013", "200"},
		{"8", "C", "C", "2015", "199"},
		{"9", "C", "D", "2015", "500"},
		{"10", "C", "D", "2020", "0"},
		{"11", "C", "E", "2021", "400"},
		{"12", "C", "", "2010", "400"},
		{"13", "C", "B", "", "400"},
	})
	require.NoError(t, err)
	return tbl
}

func TestPercentile(t *testing.T) {
	sorted := []float64{0, 0.25, 0.5, 1}
	assert.InDelta(t, 0.1875, percentile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 0.375, percentile(sorted, 0.50), 1e-9)
	assert.InDelta(t, 0.625, percentile(sorted, 0.75), 1e-9)
	assert.InDelta(t, 0.7, percentile([]float64{0.7}, 0.5), 1e-9)
	assert.True(t, math.IsNaN(percentile(nil, 0.5)))
}

func TestBuildTeamQuartiles(t *testing.T) {
	tbl := quartileTable(t)
	tq := BuildTeamQuartiles(tbl, CapabilitiesOf(tbl), DefaultOptions())
	require.True(t, tq.Enabled())

	rate, ok := tq.HitRate("B")
	require.True(t, ok)
	assert.InDelta(t, 0.25, rate, 1e-9)

	_, ok = tq.HitRate("E")
	assert.False(t, ok)

	assert.Equal(t, QuartileWorst, tq.Classify("A"))
	assert.Equal(t, QuartileQ3, tq.Classify("B"))
	assert.Equal(t, QuartileQ2, tq.Classify("C"))
	assert.Equal(t, QuartileBest, tq.Classify("D"))
	assert.Equal(t, QuartileNA, tq.Classify("E"))
	assert.Equal(t, QuartileNA, tq.Classify(""))
}

func TestTeamQuartiles_AnnotateAppliesToAllYears(t *testing.T) {
	tbl := quartileTable(t)
	tq := BuildTeamQuartiles(tbl, CapabilitiesOf(tbl), DefaultOptions())
	require.NoError(t, tq.Annotate(tbl))

	// team D drafted in 2020 still gets the training-era quartile
	assert.Equal(t, string(QuartileBest), tbl.Value(9, ColOrgQuartile))
	assert.Equal(t, string(QuartileNA), tbl.Value(10, ColOrgQuartile))
	assert.Equal(t, string(QuartileWorst), tbl.Value(1, ColOrgQuartile))
}

func TestBuildTeamQuartiles_MissingTeamTokens(t *testing.T) {
	tbl, err := table.New(quartileColumns, [][]string{
		{"1", "C", "A", "2010", "300"},
		{"2", "C", "B", "2010", "0"},
		{"3", "C", "C", "2010", "10"},
		{"4", "C", "NA", "2010", "10"},
		{"5", "C", "N/A", "2010", "10"},
		{"6", "C", "null", "2010", "10"},
		{"7", "C", "None", "2010", "10"},
	})
	require.NoError(t, err)

	tq := BuildTeamQuartiles(tbl, CapabilitiesOf(tbl), DefaultOptions())
	assert.False(t, tq.Enabled())

	opts := DefaultOptions()
	opts.MinTeams = 3
	tq = BuildTeamQuartiles(tbl, CapabilitiesOf(tbl), opts)
	require.True(t, tq.Enabled())
	_, ok := tq.HitRate("NA")
	assert.False(t, ok)
	assert.Equal(t, QuartileNA, tq.Classify("None"))
}

func TestBuildTeamQuartiles_TooFewTeams(t *testing.T) {
	tbl, err := table.New(quartileColumns, [][]string{
		{"1", "C", "A", "2010", "300"},
		{"2", "C", "B", "2010", "0"},
		{"3", "C", "C", "2010", "10"},
		{"4", "C", "D", "2019", "10"},
	})
	require.NoError(t, err)

	caps := CapabilitiesOf(tbl)
	require.True(t, caps.HasTeamQualityInputs)

	tq := BuildTeamQuartiles(tbl, caps, DefaultOptions())
	assert.False(t, tq.Enabled())
	require.NoError(t, tq.Annotate(tbl))
	for _, v := range tbl.Values(ColOrgQuartile) {
		assert.Equal(t, string(QuartileNA), v)
	}
}

func TestBuildTeamQuartiles_MissingInputs(t *testing.T) {
	for _, drop := range []string{ColTeam, ColYear, ColGamesPlayed} {
		t.Run(drop, func(t *testing.T) {
			cols := make([]string, 0, len(quartileColumns))
			for _, c := range quartileColumns {
				if c != drop {
					cols = append(cols, c)
				}
			}
			rows := [][]string{
				{"1", "C", "x", "y"},
				{"2", "C", "x", "y"},
			}
			tbl, err := table.New(cols, rows)
			require.NoError(t, err)

			caps := CapabilitiesOf(tbl)
			assert.False(t, caps.HasTeamQualityInputs)

			tq := BuildTeamQuartiles(tbl, caps, DefaultOptions())
			require.NoError(t, tq.Annotate(tbl))
			assert.Equal(t, []string{"NA", "NA"}, tbl.Values(ColOrgQuartile))
		})
	}
}

func TestBuildTeamQuartiles_Options(t *testing.T) {
	tbl := quartileTable(t)
	opts := DefaultOptions()
	opts.TrainMaxYear = 2011

	tq := BuildTeamQuartiles(tbl, CapabilitiesOf(tbl), opts)
	assert.False(t, tq.Enabled())

	opts.MinTeams = 2
	tq = BuildTeamQuartiles(tbl, CapabilitiesOf(tbl), opts)
	assert.True(t, tq.Enabled())
}
