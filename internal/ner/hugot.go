package ner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	khugot "github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Ensure HugotModel implements the Model interface.
var _ Model = (*HugotModel)(nil)

// HugotConfig configures a HugotModel.
type HugotConfig struct {
	// ModelPath is the directory holding the exported HuggingFace model.
	ModelPath string

	// OnnxFilename selects the ONNX file within ModelPath ("" = model.onnx).
	OnnxFilename string

	// PoolSize is the number of concurrent pipelines (0 = NumCPU).
	PoolSize int

	// Strategy selects how touching same-label token spans merge.
	Strategy Aggregation
}

// HugotModel runs ONNX token classification through a pool of hugot
// pipelines. Each Recognize call acquires a pipeline slot via semaphore, so
// concurrent requests run in parallel up to the pool size.
type HugotModel struct {
	session      *khugot.Session
	pipelines    []*pipelines.TokenClassificationPipeline
	sem          *semaphore.Weighted
	nextPipeline atomic.Uint64
	poolSize     int
	strategy     Aggregation
}

// NewHugotModel loads cfg.PoolSize token-classification pipelines on a shared
// hugot session.
func NewHugotModel(cfg HugotConfig) (*HugotModel, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	onnxFilename := cfg.OnnxFilename
	if onnxFilename == "" {
		onnxFilename = "model.onnx"
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	session, err := khugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("creating hugot session: %w", err)
	}

	log.Info().
		Str("model_path", cfg.ModelPath).
		Str("onnx_filename", onnxFilename).
		Int("pool_size", poolSize).
		Msg("Initializing token classification pipelines")

	pipelinesList := make([]*pipelines.TokenClassificationPipeline, poolSize)
	for i := 0; i < poolSize; i++ {
		pipelineConfig := khugot.TokenClassificationConfig{
			ModelPath:    cfg.ModelPath,
			Name:         fmt.Sprintf("ner:%s:%s:%d", cfg.ModelPath, onnxFilename, i),
			OnnxFilename: onnxFilename,
		}
		pipeline, err := khugot.NewPipeline(session, pipelineConfig)
		if err != nil {
			_ = session.Destroy()
			return nil, fmt.Errorf("creating token classification pipeline %d: %w", i, err)
		}
		// SIMPLE groups adjacent tokens with the same entity type at the
		// pipeline level; sub-span merging per the configured strategy
		// happens in parse.
		pipeline.AggregationStrategy = "SIMPLE"
		pipelinesList[i] = pipeline
	}

	return &HugotModel{
		session:   session,
		pipelines: pipelinesList,
		sem:       semaphore.NewWeighted(int64(poolSize)),
		poolSize:  poolSize,
		strategy:  cfg.Strategy,
	}, nil
}

// Recognize extracts labeled spans from the given texts.
// Thread-safe: a semaphore limits concurrent pipeline access.
func (m *HugotModel) Recognize(ctx context.Context, texts []string) ([][]Entity, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring pipeline slot: %w", err)
	}
	defer m.sem.Release(1)

	idx := int(m.nextPipeline.Add(1) % uint64(m.poolSize))
	pipeline := m.pipelines[idx]

	output, err := pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("running token classification: %w", err)
	}

	results := make([][]Entity, len(texts))
	for i, textEntities := range output.Entities {
		if i >= len(texts) {
			break
		}
		results[i] = m.parse(texts[i], textEntities)
	}
	return results, nil
}

// parse converts pipeline output for one text into entity spans: outside
// labels and invalid offsets are dropped, BIO prefixes normalized, and
// touching same-label spans merged per the configured strategy.
func (m *HugotModel) parse(text string, pipelineEntities []pipelines.Entity) []Entity {
	if len(pipelineEntities) == 0 {
		return nil
	}

	entities := make([]Entity, 0, len(pipelineEntities))
	for _, pe := range pipelineEntities {
		if IsOutside(pe.Entity) {
			continue
		}
		start := int(pe.Start)
		end := int(pe.End)
		if start < 0 || end > len(text) || start >= end {
			log.Debug().
				Int("start", start).
				Int("end", end).
				Int("text_len", len(text)).
				Msg("Dropping entity with invalid offsets")
			continue
		}
		label := NormalizeLabel(pe.Entity)
		if label == "" {
			continue
		}
		entities = append(entities, Entity{
			Text:  text[start:end],
			Label: label,
			Start: start,
			End:   end,
			Score: float64(pe.Score),
		})
	}

	return Aggregate(text, entities, m.strategy)
}

// Close destroys the underlying hugot session.
func (m *HugotModel) Close() error {
	m.pipelines = nil
	if m.session != nil {
		return m.session.Destroy()
	}
	return nil
}
