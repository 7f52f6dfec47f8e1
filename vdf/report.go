package vdf

import "time"

// SolveReport summarizes a completed Solve call for logging. It is never
// part of the wire format; cmd/classvdf builds one around a Solve call and
// logs it, but the library itself never constructs one.
type SolveReport struct {
	Construction       Kind
	Difficulty         uint64
	DiscriminantBits   int
	Duration           time.Duration
	ProofElementCount  int
	ProofLengthInBytes int
}
