// Package dataset loads the GSM8K benchmark and draws deterministic,
// disjoint sample sets from it.
package dataset

import "context"

// DefaultTrainURL points at the GSM8K "main" training split on Hugging Face.
const DefaultTrainURL = "https://huggingface.co/datasets/openai/gsm8k/resolve/main/main/train-00000-of-00001.parquet"

// Problem is a single benchmark row. Index is the row position in the full
// benchmark and is preserved through sampling and failure filtering.
type Problem struct {
	Index    int    `json:"index" parquet:"-"`
	Question string `json:"question" parquet:"question"`
	Answer   string `json:"answer" parquet:"answer"`
}

// SampleSet is an ordered draw of problems made with a fixed seed.
type SampleSet struct {
	Seed     uint64
	Problems []Problem
}

// Len returns the number of problems in the set.
func (s SampleSet) Len() int { return len(s.Problems) }

// Empty reports whether the set has no problems.
func (s SampleSet) Empty() bool { return len(s.Problems) == 0 }

// Indices returns the benchmark indices of the set, in order.
func (s SampleSet) Indices() []int {
	out := make([]int, len(s.Problems))
	for i, p := range s.Problems {
		out[i] = p.Index
	}
	return out
}

// Source yields the full benchmark.
type Source interface {
	Load(ctx context.Context) ([]Problem, error)
}
