// Package dynamo provides the numeric primitives shared by the propagation
// and physics packages.
//
// The package defines the fundamental types for integrating ordinary
// differential equations (ODEs) of orbital motion:
//
//   - [State]: flat vector holding position and velocity components
//   - [Vec3]: immutable three-component vector
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Metric] and [Observer]: hooks called once per propagation step
//
// # Example
//
//	model := perturbation.NewModel(mu, perturbation.J2{...})
//	integ := integrators.NewRK4()
//	sim := sim.New(model, integ)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Values of [State] and [Vec3] are never mutated by the helpers in this
// package; each helper returns a fresh value. Integrators may keep scratch
// buffers and must not be shared between goroutines. Use [ParallelFor] to
// split pure work across workers.
package dynamo
