package draft

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mchmarny/drafttag/pkg/table"
)

// Raw input columns.
const (
	ColOverallPick = "overall_pick"
	ColPosition    = "position"
	ColTeam        = "team"
	ColYear        = "year"
	ColGamesPlayed = "games_played"
)

// Derived columns, in the order they are appended.
const (
	ColOverallPickNum = "overall_pick_num"
	ColPickTier       = "pick_tier"
	ColPosGroup       = "pos_group"
	ColOrgQuartile    = "org_quartile"
	ColWeakLabel      = "y_weak"
	ColGoldLabel      = "y_gold"
)

// RequiredColumns must be present for the pipeline to run at all.
var RequiredColumns = []string{ColOverallPick, ColPosition}

// PickTier is a coarse bucket of draft order.
type PickTier string

const (
	TierTop10  PickTier = "top10"
	TierR1     PickTier = "r1"
	TierR2     PickTier = "r2"
	TierMid    PickTier = "mid"
	TierLate   PickTier = "late"
	TierR7Plus PickTier = "r7plus"
	TierNA     PickTier = "NA"
)

// PosGroup is a coarse bucket of player position.
type PosGroup string

const (
	GroupForward PosGroup = "F"
	GroupDefense PosGroup = "D"
	GroupGoalie  PosGroup = "G"
	GroupNA      PosGroup = "NA"
)

var tierBreaks = []struct {
	max  int
	tier PickTier
}{
	{10, TierTop10},
	{32, TierR1},
	{64, TierR2},
	{150, TierMid},
	{199, TierLate},
}

var positionGroups = map[string]PosGroup{
	"C":  GroupForward,
	"LW": GroupForward,
	"RW": GroupForward,
	"D":  GroupDefense,
	"G":  GroupGoalie,
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// ParseNumber trims s and parses it as a finite decimal number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt coerces s to an integer, truncating toward zero. The second
// return value is false for empty, missing or non-numeric input.
func ParseInt(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok || f > maxExactInt || f < -maxExactInt {
		return 0, false
	}
	return int(f), true
}

// TierOf returns the pick tier of a coerced overall pick.
func TierOf(pick int, ok bool) PickTier {
	if !ok {
		return TierNA
	}
	for _, b := range tierBreaks {
		if pick <= b.max {
			return b.tier
		}
	}
	return TierR7Plus
}

// GroupOf returns the position group of a raw position value.
func GroupOf(pos string) PosGroup {
	if g, ok := positionGroups[strings.ToUpper(strings.TrimSpace(pos))]; ok {
		return g
	}
	return GroupNA
}

func formatInt(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

// Normalize appends overall_pick_num, pick_tier and pos_group to t.
func Normalize(t *table.Table) error {
	if err := t.Require(RequiredColumns...); err != nil {
		return err
	}

	n := t.Len()
	nums := make([]string, n)
	tiers := make([]string, n)
	groups := make([]string, n)

	for i := range n {
		pick, ok := ParseInt(t.Value(i, ColOverallPick))
		nums[i] = formatInt(pick, ok)
		tiers[i] = string(TierOf(pick, ok))
		groups[i] = string(GroupOf(t.Value(i, ColPosition)))
	}

	for _, c := range []struct {
		name   string
		values []string
	}{
		{ColOverallPickNum, nums},
		{ColPickTier, tiers},
		{ColPosGroup, groups},
	} {
		if err := t.SetColumn(c.name, c.values); err != nil {
			return fmt.Errorf("setting %s: %w", c.name, err)
		}
	}
	return nil
}
