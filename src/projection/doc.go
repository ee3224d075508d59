// Package projection turns a snapshot of holdings into valuations, a twelve
// month dividend income projection and portfolio-wide summary figures.
//
// Everything here is a pure function of its inputs: no I/O, no clock reads
// and no package state. Callers resolve live quotes and sanitise numbers
// before calling in; every division is guarded so zero divisors yield 0.
package projection
