package draft

import (
	"fmt"
	"io"

	"github.com/mchmarny/drafttag/pkg/table"
)

// Counts is the distribution of y_weak including abstentions.
type Counts struct {
	Positive int `json:"positive" yaml:"positive"`
	Negative int `json:"negative" yaml:"negative"`
	Abstain  int `json:"abstain" yaml:"abstain"`
}

// Total returns the number of counted records.
func (c Counts) Total() int {
	return c.Positive + c.Negative + c.Abstain
}

// Agreement compares weak labels with gold labels on non-abstained records.
type Agreement struct {
	Labeled   int     `json:"labeled" yaml:"labeled"`
	Matched   int     `json:"matched" yaml:"matched"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
}

// Report summarizes an annotated table.
type Report struct {
	RunID        string         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Input        string         `json:"input,omitempty" yaml:"input,omitempty"`
	Output       string         `json:"output,omitempty" yaml:"output,omitempty"`
	Encoding     string         `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Rows         int            `json:"rows" yaml:"rows"`
	// Coverage is the share of rows with a 0/1 weak label; 0 for an empty table.
	Coverage     float64        `json:"coverage" yaml:"coverage"`
	Counts       Counts         `json:"counts" yaml:"counts"`
	PickTiers    map[string]int `json:"pick_tiers,omitempty" yaml:"pick_tiers,omitempty"`
	PosGroups    map[string]int `json:"pos_groups,omitempty" yaml:"pos_groups,omitempty"`
	OrgQuartiles map[string]int `json:"org_quartiles,omitempty" yaml:"org_quartiles,omitempty"`
	Capabilities Capabilities   `json:"capabilities" yaml:"capabilities"`
	Agreement    *Agreement     `json:"agreement,omitempty" yaml:"agreement,omitempty"`
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func countValues(t *table.Table, col string) map[string]int {
	if !t.Has(col) {
		return nil
	}
	m := make(map[string]int)
	for _, v := range t.Values(col) {
		m[v]++
	}
	return m
}

// Summarize computes coverage, label counts and feature distributions of an
// annotated table.
func Summarize(t *table.Table) *Report {
	r := &Report{
		Rows:         t.Len(),
		PickTiers:    countValues(t, ColPickTier),
		PosGroups:    countValues(t, ColPosGroup),
		OrgQuartiles: countValues(t, ColOrgQuartile),
	}

	hasGold := t.Has(ColGoldLabel)
	var agr Agreement
	var tp, fp, fn int

	for i := range t.Len() {
		weak := ParseLabel(t.Value(i, ColWeakLabel))
		switch weak {
		case Positive:
			r.Counts.Positive++
		case Negative:
			r.Counts.Negative++
		default:
			r.Counts.Abstain++
			continue
		}

		if !hasGold {
			continue
		}
		gold := ParseLabel(t.Value(i, ColGoldLabel))
		agr.Labeled++
		if weak == gold {
			agr.Matched++
		}
		switch {
		case weak == Positive && gold == Positive:
			tp++
		case weak == Positive:
			fp++
		case gold == Positive:
			fn++
		}
	}

	r.Coverage = ratio(r.Counts.Positive+r.Counts.Negative, r.Rows)

	if hasGold {
		agr.Accuracy = ratio(agr.Matched, agr.Labeled)
		agr.Precision = ratio(tp, tp+fp)
		agr.Recall = ratio(tp, tp+fn)
		r.Agreement = &agr
	}

	return r
}

// WriteText prints the plain summary lines.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Loaded: %s\n", r.Input); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Wrote:  %s\n", r.Output); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "rows: %d | y_weak coverage: %.4f | counts: {1: %d, 0: %d, null: %d}\n",
		r.Rows, r.Coverage, r.Counts.Positive, r.Counts.Negative, r.Counts.Abstain)
	if err != nil {
		return err
	}
	if r.Agreement != nil {
		_, err = fmt.Fprintf(w, "y_gold agreement: %.4f over %d labeled | precision: %.4f | recall: %.4f\n",
			r.Agreement.Accuracy, r.Agreement.Labeled, r.Agreement.Precision, r.Agreement.Recall)
	}
	return err
}
