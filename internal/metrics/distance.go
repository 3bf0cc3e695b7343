package metrics

import (
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
)

// MinDistance records the smallest separation between the propagated body
// and a target whose position is known as a function of time. A nil target
// means the origin of the propagation frame.
type MinDistance struct {
	name    string
	target  func(t float64) dynamo.Vec3
	min     float64
	minTime float64
	samples int
}

func NewMinDistance(name string, target func(t float64) dynamo.Vec3) *MinDistance {
	if name == "" {
		name = "min_distance"
	}
	return &MinDistance{
		name:   name,
		target: target,
		min:    math.Inf(1),
	}
}

func (m *MinDistance) Name() string { return m.name }

func (m *MinDistance) Observe(x dynamo.State, t float64) {
	if len(x) < 3 {
		return
	}
	var tp dynamo.Vec3
	if m.target != nil {
		tp = m.target(t)
	}
	d := x.Position().DistanceTo(tp)
	if d < m.min {
		m.min = d
		m.minTime = t
	}
	m.samples++
}

func (m *MinDistance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

// Time returns the propagation time at which the minimum was observed.
func (m *MinDistance) Time() float64 { return m.minTime }

func (m *MinDistance) Reset() {
	m.min = math.Inf(1)
	m.minTime = 0
	m.samples = 0
}
