package ner

import (
	"sort"
	"strings"
)

// Aggregation selects how touching same-label token spans merge into one
// entity-level span and score.
type Aggregation string

const (
	// AggregationSimple keeps the highest sub-span score.
	AggregationSimple Aggregation = "simple"
	// AggregationFirst keeps the first sub-span's score.
	AggregationFirst Aggregation = "first"
	// AggregationAverage averages the sub-span scores.
	AggregationAverage Aggregation = "average"
)

// ParseAggregation maps a config string to an Aggregation, defaulting to
// AggregationSimple for unknown values.
func ParseAggregation(s string) Aggregation {
	switch Aggregation(strings.ToLower(s)) {
	case AggregationFirst:
		return AggregationFirst
	case AggregationAverage:
		return AggregationAverage
	default:
		return AggregationSimple
	}
}

// NormalizeLabel strips BIO/BIOES prefixes (B-, I-, E-, S-) and folds common
// label variants to their CoNLL short form. Outside labels normalize to "".
func NormalizeLabel(label string) string {
	if IsOutside(label) {
		return ""
	}
	if len(label) >= 2 && label[1] == '-' {
		label = label[2:]
	}
	label = strings.ToUpper(label)
	switch label {
	case "PERSON", "PEOPLE":
		return "PER"
	case "ORGANIZATION", "ORGANISATION", "COMPANY":
		return "ORG"
	case "LOCATION", "PLACE":
		return "LOC"
	case "MISCELLANEOUS":
		return "MISC"
	default:
		return label
	}
}

// IsOutside reports whether a label marks a token outside any entity.
func IsOutside(label string) bool {
	return label == "O" || label == ""
}

// Aggregate merges overlapping or touching entities that share a label into
// one span, combining scores per the strategy and re-slicing Text from the
// original input. Input order is irrelevant; output is sorted by ascending
// start offset.
func Aggregate(text string, ents []Entity, strategy Aggregation) []Entity {
	if len(ents) <= 1 {
		return ents
	}

	sorted := make([]Entity, len(ents))
	copy(sorted, ents)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	type group struct {
		entity Entity
		scores []float64
	}

	var groups []group
	for _, e := range sorted {
		if len(groups) > 0 {
			last := &groups[len(groups)-1]
			if e.Label == last.entity.Label && e.Start <= last.entity.End {
				if e.End > last.entity.End {
					last.entity.End = e.End
				}
				last.scores = append(last.scores, e.Score)
				continue
			}
		}
		groups = append(groups, group{entity: e, scores: []float64{e.Score}})
	}

	out := make([]Entity, 0, len(groups))
	for _, g := range groups {
		g.entity.Score = combineScores(g.scores, strategy)
		if g.entity.Start >= 0 && g.entity.End <= len(text) && g.entity.Start <= g.entity.End {
			g.entity.Text = text[g.entity.Start:g.entity.End]
		}
		out = append(out, g.entity)
	}
	return out
}

func combineScores(scores []float64, strategy Aggregation) float64 {
	switch strategy {
	case AggregationFirst:
		return scores[0]
	case AggregationAverage:
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		return sum / float64(len(scores))
	default:
		max := scores[0]
		for _, s := range scores[1:] {
			if s > max {
				max = s
			}
		}
		return max
	}
}
