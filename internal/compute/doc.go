// Package compute provides the pairwise gravitational acceleration kernel.
//
// Two backends are always registered:
//
//   - cpu: splits the particle range across goroutines, each particle
//     summing over every other particle in index order
//   - serial: single goroutine, visits each pair once and applies the
//     equal and opposite contribution to both particles
//
// Built with the opengl43 tag (which also switches raylib to a GL 4.3
// context), a third backend "gl" runs the cpu sum as a compute shader.
// It needs the window's GL context; see [RequiresWindow].
//
// Both read positions and masses without mutating them and write only
// into the caller's acceleration buffer:
//
//	backend, _ := compute.New("cpu", workers)
//	backend.Accelerations(store.Positions(), store.Masses(), g, eps, acc)
package compute
