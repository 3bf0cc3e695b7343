package metrics

import (
	"github.com/san-kum/neoshield/internal/dynamo"
)

// Boundedness is the fraction of observed states whose radius stays inside
// [minRadius, maxRadius]. A zero maxRadius disables the upper bound.
type Boundedness struct {
	name       string
	minRadius  float64
	maxRadius  float64
	violations int
	samples    int
}

func NewBoundedness(minRadius, maxRadius float64) *Boundedness {
	return &Boundedness{
		name:      "boundedness",
		minRadius: minRadius,
		maxRadius: maxRadius,
	}
}

func (b *Boundedness) Name() string {
	return b.name
}

func (b *Boundedness) Observe(x dynamo.State, t float64) {
	if len(x) < 3 {
		return
	}
	b.samples++
	r := x.Position().Norm()
	if r < b.minRadius || (b.maxRadius > 0 && r > b.maxRadius) || !x.IsValid() {
		b.violations++
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}
