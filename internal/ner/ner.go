// Package ner provides the token-classification capability behind the
// statistical recognizer. The default backend runs a HuggingFace NER model
// locally through the hugot ONNX runtime; any implementation of Model can be
// substituted (e.g. a stub in tests or a remote inference endpoint).
package ner

import "context"

// Entity is a token-level prediction already merged to entity granularity:
// consecutive sub-token predictions sharing a label arrive as one span.
type Entity struct {
	// Text is the matched substring of the input.
	Text string `json:"text"`
	// Label is the model's native label (e.g. "PER", "ORG", "LOC", "MISC").
	Label string `json:"label"`
	// Start is the character offset where the entity begins.
	Start int `json:"start"`
	// End is the character offset where the entity ends (exclusive).
	End int `json:"end"`
	// Score is the confidence in [0,1].
	Score float64 `json:"score"`
}

// Model is the black-box inference contract. Given texts it yields labeled
// spans with confidence scores; one entity slice per input text.
type Model interface {
	Recognize(ctx context.Context, texts []string) ([][]Entity, error)

	// Close releases any resources held by the model.
	Close() error
}
