package draft

import (
	"math"
	"strconv"

	"github.com/mchmarny/drafttag/pkg/table"
)

// Label is a binary outcome or an abstention.
type Label int8

const (
	Abstain  Label = -1
	Negative Label = 0
	Positive Label = 1
)

// String returns the cell value of the label; abstain is empty.
func (l Label) String() string {
	if l == Abstain {
		return ""
	}
	return strconv.Itoa(int(l))
}

// ParseLabel reads a label cell written by String.
func ParseLabel(s string) Label {
	switch s {
	case "1":
		return Positive
	case "0":
		return Negative
	default:
		return Abstain
	}
}

// anyGroup matches every position group.
const anyGroup PosGroup = ""

// Rule assigns Label to picks in [Min, Max] of the given position group.
type Rule struct {
	Name  string
	Group PosGroup
	Min   int
	Max   int
	Label Label
}

func (r Rule) matches(pick int, g PosGroup) bool {
	return (r.Group == anyGroup || r.Group == g) && pick >= r.Min && pick <= r.Max
}

const (
	noMin = math.MinInt
	noMax = math.MaxInt
)

// Rules is the weak-labeling cascade. The first matching rule wins, so order
// matters where ranges overlap across groups.
var Rules = []Rule{
	{Name: "top10", Group: anyGroup, Min: noMin, Max: 10, Label: Positive},
	{Name: "first-round", Group: anyGroup, Min: 11, Max: 32, Label: Positive},

	{Name: "d-early", Group: GroupDefense, Min: noMin, Max: 45, Label: Positive},
	{Name: "d-mid", Group: GroupDefense, Min: 65, Max: 120, Label: Negative},
	{Name: "d-late", Group: GroupDefense, Min: 180, Max: noMax, Label: Negative},
	{Name: "f-early", Group: GroupForward, Min: noMin, Max: 60, Label: Positive},
	{Name: "f-late", Group: GroupForward, Min: 180, Max: noMax, Label: Negative},
	{Name: "g-early", Group: GroupGoalie, Min: noMin, Max: 60, Label: Positive},
	{Name: "g-late", Group: GroupGoalie, Min: 180, Max: noMax, Label: Negative},

	{Name: "second-round", Group: anyGroup, Min: 33, Max: 64, Label: Positive},
	{Name: "mid-rounds", Group: anyGroup, Min: 65, Max: 150, Label: Negative},
	{Name: "very-late", Group: anyGroup, Min: 200, Max: noMax, Label: Negative},
}

// MatchRule returns the first rule matching pick and g.
func MatchRule(pick int, g PosGroup) (Rule, bool) {
	for _, r := range Rules {
		if r.matches(pick, g) {
			return r, true
		}
	}
	return Rule{}, false
}

// WeakLabel runs the cascade. A missing pick, or a pick no rule covers,
// abstains.
func WeakLabel(pick int, ok bool, g PosGroup) Label {
	if !ok {
		return Abstain
	}
	r, found := MatchRule(pick, g)
	if !found {
		return Abstain
	}
	return r.Label
}

// GoldLabel is 1 when games played meets the threshold; missing counts as 0.
func GoldLabel(gamesPlayed string, threshold float64) Label {
	if success(gamesPlayed, threshold) {
		return Positive
	}
	return Negative
}

// LabelWeak appends y_weak to t. It reads the derived pick and group columns,
// so Normalize must run first.
func LabelWeak(t *table.Table) error {
	values := make([]string, t.Len())
	for i := range values {
		pick, ok := ParseInt(t.Value(i, ColOverallPickNum))
		values[i] = WeakLabel(pick, ok, PosGroup(t.Value(i, ColPosGroup))).String()
	}
	return t.SetColumn(ColWeakLabel, values)
}

// LabelGold appends y_gold to t when games_played is present.
func LabelGold(t *table.Table, threshold float64) (bool, error) {
	if !t.Has(ColGamesPlayed) {
		return false, nil
	}
	values := make([]string, t.Len())
	for i := range values {
		values[i] = GoldLabel(t.Value(i, ColGamesPlayed), threshold).String()
	}
	return true, t.SetColumn(ColGoldLabel, values)
}
