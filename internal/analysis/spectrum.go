// Package analysis finds periodicities in sampled encounter geometry.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// MinSamples is the shortest series DominantPeriod accepts.
const MinSamples = 8

var (
	ErrTooFewSamples = errors.New("too few samples")
	ErrFlatSeries    = errors.New("series has no variation")
)

// PowerSpectrum returns the one-sided magnitude spectrum of data after
// removing the mean and applying a Hann window. Bin k corresponds to a
// period of len(data)/k samples.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	buf := make([]complex128, n)
	for i, v := range data {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		buf[i] = complex((v-mean)*w, 0)
	}
	spectrum := fft.FFT(buf)

	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency
// in a uniformly sampled series, in the units of dt. Periods longer than
// the series itself cannot be resolved.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < MinSamples {
		return 0, fmt.Errorf("%w: %d < %d", ErrTooFewSamples, len(data), MinSamples)
	}
	if dt <= 0 || math.IsNaN(dt) {
		return 0, fmt.Errorf("sample spacing must be positive: %g", dt)
	}
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		return 0, ErrFlatSeries
	}

	ps := PowerSpectrum(data)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(len(data)) * dt / float64(best), nil
}
