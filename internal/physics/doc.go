// Package physics provides the point-mass model used by the simulator.
//
// A [Body] carries position, velocity, mass and a display name, and knows
// how to compute Newtonian gravity against other bodies:
//
//   - [Body.DistanceTo], [Body.ForceExertedBy]: pairwise distance and force magnitude
//   - [Body.ForceExertedByX], [Body.ForceExertedByY]: signed force components
//   - [Body.NetForceX], [Body.NetForceY]: sums over a collection, skipping self
//   - [Body.Advance]: one semi-implicit Euler step
//
// # Stepping
//
// Forces for a step must all be computed from the same pre-step state
// before any body is advanced:
//
//	fx := make([]float64, len(bodies))
//	fy := make([]float64, len(bodies))
//	for i, b := range bodies {
//	    fx[i], fy[i] = b.NetForceX(bodies), b.NetForceY(bodies)
//	}
//	for i, b := range bodies {
//	    b.Advance(dt, fx[i], fy[i])
//	}
//
// The sim package wraps this loop.
//
// # Degenerate input
//
// Coincident bodies divide by a zero distance and massless bodies divide by
// zero in [Body.Advance]. Neither is guarded; the resulting NaN or Inf
// propagates into later state.
package physics
