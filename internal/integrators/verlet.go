package integrators

import "github.com/san-kum/neoshield/internal/dynamo"

// Verlet and Leapfrog assume the state layout [positions..., velocities...]
// where the second half holds the time derivative of the first half. The
// orbital layout [x, y, z, vx, vy, vz] satisfies this.

// Verlet is velocity Verlet.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	next := make(dynamo.State, n)
	acc := sys.Derive(x, t)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		next[i] = x[i] + x[half+i]*dt + 0.5*acc[half+i]*dt2
		v.scratch[i] = next[i]
		v.scratch[half+i] = x[half+i]
	}

	accNew := sys.Derive(v.scratch, t+dt)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		next[half+i] = x[half+i] + (acc[half+i]+accNew[half+i])*halfDt
	}

	return next
}

// Leapfrog is the kick-drift-kick form; it is symplectic and keeps orbital
// energy bounded over long arcs.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	next := make(dynamo.State, n)
	acc := sys.Derive(x, t)
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + acc[half+i]*halfDt
	}
	for i := 0; i < half; i++ {
		next[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = next[i]
	}

	accNew := sys.Derive(l.scratch, t+dt)

	for i := 0; i < half; i++ {
		next[half+i] = l.scratch[half+i] + accNew[half+i]*halfDt
	}

	return next
}
