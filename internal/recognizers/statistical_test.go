package recognizers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/ner"
)

type stubModel struct {
	entities []ner.Entity
	err      error
	texts    []string
}

func (m *stubModel) Recognize(_ context.Context, texts []string) ([][]ner.Entity, error) {
	m.texts = texts
	if m.err != nil {
		return nil, m.err
	}
	return [][]ner.Entity{m.entities}, nil
}

func (m *stubModel) Close() error { return nil }

func TestStatisticalRecognizerMapsNativeLabels(t *testing.T) {
	model := &stubModel{entities: []ner.Entity{
		{Text: "David", Label: "PER", Start: 0, End: 5, Score: 0.99},
		{Text: "Maine", Label: "LOC", Start: 15, End: 20, Score: 0.97},
	}}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model)

	text := "David lives in Maine."
	findings, err := rec.Analyze(context.Background(), text, nil)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "PERSON", findings[0].EntityType)
	assert.Equal(t, "David", text[findings[0].Start:findings[0].End])
	assert.Equal(t, "LOCATION", findings[1].EntityType)
	assert.Equal(t, "Maine", text[findings[1].Start:findings[1].End])
	assert.Equal(t, []string{text}, model.texts)
}

func TestStatisticalRecognizerDropsIgnoredAndUnmapped(t *testing.T) {
	model := &stubModel{entities: []ner.Entity{
		{Label: "MISC", Start: 0, End: 4, Score: 0.9},
		{Label: "O", Start: 5, End: 6, Score: 0.9},
		{Label: "UNKNOWN_LABEL", Start: 7, End: 9, Score: 0.9},
		{Label: "ORG", Start: 10, End: 14, Score: 0.8},
	}}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model)

	findings, err := rec.Analyze(context.Background(), "abcd e fg hijk", nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "ORGANIZATION", findings[0].EntityType)
}

func TestStatisticalRecognizerCustomIgnoreList(t *testing.T) {
	model := &stubModel{entities: []ner.Entity{
		{Label: "PER", Start: 0, End: 5, Score: 0.9},
		{Label: "LOC", Start: 6, End: 11, Score: 0.9},
	}}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model,
		WithIgnoredLabels([]string{"PER"}))

	findings, err := rec.Analyze(context.Background(), "David Paris", nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "LOCATION", findings[0].EntityType)
}

func TestStatisticalRecognizerRequestedFilter(t *testing.T) {
	model := &stubModel{entities: []ner.Entity{
		{Label: "PER", Start: 0, End: 5, Score: 0.9},
		{Label: "LOC", Start: 15, End: 20, Score: 0.9},
	}}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model)

	findings, err := rec.Analyze(context.Background(), "David lives in Maine.", []string{"PERSON"})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "PERSON", findings[0].EntityType)
}

func TestStatisticalRecognizerModelError(t *testing.T) {
	model := &stubModel{err: errors.New("session destroyed")}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model)

	_, err := rec.Analyze(context.Background(), "David", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model inference")
}

func TestStatisticalRecognizerMalformedInput(t *testing.T) {
	model := &stubModel{}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model)
	ctx := context.Background()

	findings, err := rec.Analyze(ctx, "", nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Nil(t, model.texts) // model never invoked

	findings, err = rec.Analyze(ctx, string([]byte{0xff, 0xfe}), nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestStatisticalRecognizerDropsInvalidSpans(t *testing.T) {
	model := &stubModel{entities: []ner.Entity{
		{Label: "PER", Start: 0, End: 100, Score: 0.9},  // past end of text
		{Label: "PER", Start: 3, End: 3, Score: 0.9},    // empty
		{Label: "LOC", Start: -1, End: 2, Score: 0.9},   // negative
		{Label: "PER", Start: 0, End: 5, Score: 0.9},
	}}
	rec := NewStatisticalRecognizer("StatisticalRecognizer", model)

	findings, err := rec.Analyze(context.Background(), "David", nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 5, findings[0].End)
}

func TestStatisticalRecognizerMetadata(t *testing.T) {
	rec := NewStatisticalRecognizer("StatisticalRecognizer", &stubModel{},
		WithLanguage("de"))

	assert.Equal(t, "StatisticalRecognizer", rec.Name())
	assert.Equal(t, "de", rec.SupportedLanguage())
	assert.Contains(t, rec.SupportedEntities(), "PERSON")
	assert.Contains(t, rec.SupportedEntities(), "LOCATION")
}
