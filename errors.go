package hycsdk

import "fmt"

var (
	ErrAlreadyInitialized = fmt.Errorf("client already initialized")
	ErrNotInitialized     = fmt.Errorf("client not initialized")
	ErrMissingProver      = fmt.Errorf("missing prover")

	// ErrNullifierSpent is terminal for the current note: the ticket has
	// already been withdrawn and a different one is required.
	ErrNullifierSpent = fmt.Errorf("ticket already withdrawn")
	// ErrInvalidProof means the pool rejected the proof's public args;
	// the payload was never submitted.
	ErrInvalidProof = fmt.Errorf("withdraw proof rejected by pool")

	ErrProofGenerationFailed = fmt.Errorf("proof generation failed")
	// ErrSubmissionFailed is safe to retry only after re-checking the
	// nullifier, since a prior attempt may have partially succeeded.
	ErrSubmissionFailed = fmt.Errorf("withdrawal submission failed")

	ErrRecipientNotAllowlisted = fmt.Errorf("recipient is not allowlisted")
)

// PreconditionError reports a Withdraw call whose preconditions do not
// hold. It has no side effects on the attempt.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("withdraw precondition failed: %s", e.Reason)
}
