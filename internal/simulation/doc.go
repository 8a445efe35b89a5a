// Package simulation computes one tick of the temperature simulation.
//
// A tick reads the current snapshot and returns the reducer commands that
// move every device forward: a bounded random walk for ordinary devices and
// a scripted climb for the demo-failure device once it is triggered. Status
// transitions on the scripted device are handed to the evaluator, whose
// commands follow the reading in the returned slice.
//
// The Simulator owns two pieces of state across ticks: the random source
// and the scripted step counter. Neither lives in the snapshot.
package simulation
