package dataset

import (
	"context"
	"math/rand/v2"

	"github.com/mwiater/gsmprompt/internal/logging"
)

// Sample draws n problems without replacement using a PCG generator seeded
// with seed. The same pool, n and seed always produce the same set in the
// same order. n is clamped to the pool size.
func Sample(pool []Problem, n int, seed uint64) SampleSet {
	if n <= 0 || len(pool) == 0 {
		return SampleSet{Seed: seed, Problems: []Problem{}}
	}
	if n > len(pool) {
		n = len(pool)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(len(pool))

	out := make([]Problem, n)
	for i := 0; i < n; i++ {
		out[i] = pool[perm[i]]
	}
	return SampleSet{Seed: seed, Problems: out}
}

// Split draws a dev set of devSize rows, removes those rows from the pool and
// draws testSize rows from what remains with the same seed. The two sets never
// share a benchmark index.
func Split(pool []Problem, devSize, testSize int, seed uint64) (SampleSet, SampleSet) {
	dev := Sample(pool, devSize, seed)

	taken := make(map[int]struct{}, dev.Len())
	for _, p := range dev.Problems {
		taken[p.Index] = struct{}{}
	}
	remaining := make([]Problem, 0, len(pool)-dev.Len())
	for _, p := range pool {
		if _, ok := taken[p.Index]; ok {
			continue
		}
		remaining = append(remaining, p)
	}

	return dev, Sample(remaining, testSize, seed)
}

// LoadSample loads the benchmark and draws a single sample set.
func LoadSample(ctx context.Context, src Source, n int, seed uint64) (SampleSet, error) {
	pool, err := src.Load(ctx)
	if err != nil {
		return SampleSet{Seed: seed, Problems: []Problem{}}, err
	}
	set := Sample(pool, n, seed)
	logging.LogEvent("dataset: sampled %d of %d rows (seed %d)", set.Len(), len(pool), seed)
	return set, nil
}

// LoadSplit loads the benchmark and returns disjoint dev and test sets. Load
// failures are logged and degrade to two empty sets instead of an error.
func LoadSplit(ctx context.Context, src Source, devSize, testSize int, seed uint64) (SampleSet, SampleSet) {
	pool, err := src.Load(ctx)
	if err != nil {
		logging.LogEvent("dataset: error loading benchmark for split: %v", err)
		empty := SampleSet{Seed: seed, Problems: []Problem{}}
		return empty, empty
	}
	dev, test := Split(pool, devSize, testSize, seed)
	logging.LogEvent("dataset: created disjoint dev set (%d) and test set (%d)", dev.Len(), test.Len())
	return dev, test
}
