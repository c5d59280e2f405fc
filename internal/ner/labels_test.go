package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"B-PER", "PER"},
		{"I-PER", "PER"},
		{"B-ORG", "ORG"},
		{"E-LOC", "LOC"},
		{"S-MISC", "MISC"},
		{"PERSON", "PER"},
		{"ORGANIZATION", "ORG"},
		{"LOCATION", "LOC"},
		{"O", ""},
		{"", ""},
		{"NORP", "NORP"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.label))
		})
	}
}

func TestParseAggregation(t *testing.T) {
	assert.Equal(t, AggregationSimple, ParseAggregation("simple"))
	assert.Equal(t, AggregationFirst, ParseAggregation("FIRST"))
	assert.Equal(t, AggregationAverage, ParseAggregation("average"))
	assert.Equal(t, AggregationSimple, ParseAggregation("bogus"))
	assert.Equal(t, AggregationSimple, ParseAggregation(""))
}

func TestAggregateMergesTouchingSameLabel(t *testing.T) {
	text := "David Johnson"
	ents := []Entity{
		{Text: "David", Label: "PER", Start: 0, End: 5, Score: 0.9},
		{Text: " Johnson", Label: "PER", Start: 5, End: 13, Score: 0.7},
	}

	got := Aggregate(text, ents, AggregationAverage)
	require.Len(t, got, 1)
	assert.Equal(t, "David Johnson", got[0].Text)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 13, got[0].End)
	assert.InDelta(t, 0.8, got[0].Score, 1e-9)
}

func TestAggregateStrategies(t *testing.T) {
	text := "abcdef"
	ents := []Entity{
		{Label: "PER", Start: 0, End: 2, Score: 0.6},
		{Label: "PER", Start: 2, End: 4, Score: 0.9},
		{Label: "PER", Start: 4, End: 6, Score: 0.3},
	}

	tests := []struct {
		strategy Aggregation
		want     float64
	}{
		{AggregationSimple, 0.9},
		{AggregationFirst, 0.6},
		{AggregationAverage, 0.6},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			got := Aggregate(text, ents, tt.strategy)
			require.Len(t, got, 1)
			assert.InDelta(t, tt.want, got[0].Score, 1e-9)
		})
	}
}

func TestAggregateKeepsDistinctLabelsAndGaps(t *testing.T) {
	text := "David lives in Maine."
	ents := []Entity{
		{Label: "PER", Start: 0, End: 5, Score: 0.99},
		{Label: "LOC", Start: 15, End: 20, Score: 0.98},
	}

	got := Aggregate(text, ents, AggregationSimple)
	require.Len(t, got, 2)
	assert.Equal(t, "PER", got[0].Label)
	assert.Equal(t, "LOC", got[1].Label)
	assert.Equal(t, "Maine", got[1].Text)
}

func TestAggregateDifferentLabelsTouching(t *testing.T) {
	// Touching spans with different labels stay separate.
	text := "abcd"
	ents := []Entity{
		{Label: "PER", Start: 0, End: 2, Score: 0.9},
		{Label: "ORG", Start: 2, End: 4, Score: 0.9},
	}
	got := Aggregate(text, ents, AggregationSimple)
	assert.Len(t, got, 2)
}

func TestAggregateEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Aggregate("x", nil, AggregationSimple))

	one := []Entity{{Label: "PER", Start: 0, End: 1, Score: 0.5}}
	assert.Equal(t, one, Aggregate("x", one, AggregationSimple))
}
