package uncertainty

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/neoshield/internal/dynamo"
)

type MCResult struct {
	Value
	Samples int     `json:"samples"`
	P05     float64 `json:"p05"`
	P95     float64 `json:"p95"`
}

const mcChunk = 1024

// MonteCarlo estimates fn's distribution by sampling the inputs. Samples
// are generated in fixed chunks, each with a seed derived from seed and the
// chunk index, so the result does not depend on how many workers run.
func MonteCarlo(fn Func, inputs []Input, samples int, seed int64, unit string) (MCResult, error) {
	if samples < 2 {
		return MCResult{}, fmt.Errorf("uncertainty: monte carlo needs at least 2 samples, got %d", samples)
	}
	names, err := index(inputs)
	if err != nil {
		return MCResult{}, err
	}

	out := make([]float64, samples)
	chunks := (samples + mcChunk - 1) / mcChunk

	dynamo.ParallelFor(chunks, 1, func(start, end int) {
		vals := make([]float64, len(inputs))
		for c := start; c < end; c++ {
			rng := rand.New(rand.NewSource(seed + int64(c)*7919))
			lo := c * mcChunk
			hi := min(lo+mcChunk, samples)
			for s := lo; s < hi; s++ {
				for i, in := range inputs {
					vals[i] = draw(rng, in)
				}
				out[s] = fn(Args{names: names, values: vals})
			}
		}
	})

	var mean float64
	for _, y := range out {
		mean += y
	}
	mean /= float64(samples)

	var ss float64
	for _, y := range out {
		ss += (y - mean) * (y - mean)
	}

	sorted := append([]float64(nil), out...)
	sort.Float64s(sorted)

	return MCResult{
		Value:   Value{Value: mean, Uncertainty: math.Sqrt(ss / float64(samples-1)), Unit: unit},
		Samples: samples,
		P05:     percentile(sorted, 0.05),
		P95:     percentile(sorted, 0.95),
	}, nil
}

func draw(rng *rand.Rand, in Input) float64 {
	v, w := in.Value.Value, in.Value.Uncertainty
	if w == 0 {
		return v
	}
	if in.Distribution == Uniform {
		return v + w*(2*rng.Float64()-1)
	}
	return v + w*rng.NormFloat64()
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := p * float64(len(sorted)-1)
	i := int(pos)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}
