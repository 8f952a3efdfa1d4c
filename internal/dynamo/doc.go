// Package dynamo provides the primitives shared by every stage of the
// galaxy simulation.
//
//   - [ParallelFor]: data-parallel loop over a particle index range
//   - [SimulationError]: error carrying step/frame/particle context
//   - sentinel errors for configuration and numeric failures
//
// # Barrier contract
//
// ParallelFor returns only after every chunk has finished. Kernels built
// on it read a snapshot that no chunk mutates and write only the indices
// of their own chunk, so two consecutive ParallelFor calls form a
// read-then-write barrier:
//
//	dynamo.ParallelFor(n, workers, 64, func(start, end int) { /* read all, write acc[start:end] */ })
//	dynamo.ParallelFor(n, workers, 64, func(start, end int) { /* apply acc[start:end] */ })
package dynamo
