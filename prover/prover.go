// Package prover defines the boundary to the zero-knowledge proving
// system. The SDK treats proof generation as an opaque, long-running
// operation: it hands over the note material and receives a submittable
// payload, observing progress along the way.
package prover

import (
	"context"

	"github.com/hideyourcash/go-sdk/types"
)

// ProgressFunc receives proof-generation progress as a percentage.
// Implementations may call it from the proving goroutine; observers must
// not block.
type ProgressFunc func(pct float64)

// Request carries everything the prover needs to build a withdrawal proof.
type Request struct {
	Note           *types.Note
	Recipient      string
	RelayerAccount string
	Fee            string
	Refund         string
}

type Prover interface {
	// Prove generates the withdrawal proof, reporting progress through the
	// callback. Cancelling the context aborts the computation.
	Prove(
		ctx context.Context, req Request, progress ProgressFunc,
	) (*types.ProofPayload, error)
}

// Monotonic wraps a ProgressFunc so reported percentages never decrease,
// regardless of how the underlying prover batches its notifications.
func Monotonic(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(float64) {}
	}
	last := 0.0
	return func(pct float64) {
		if pct < last {
			return
		}
		last = pct
		fn(pct)
	}
}
