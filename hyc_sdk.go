package hycsdk

import (
	"context"

	"github.com/hideyourcash/go-sdk/score"
	"github.com/hideyourcash/go-sdk/types"
)

// HycClient drives a privacy-pool withdrawal end to end: ticket parsing and
// validation, anonymity scoring, relayer fee negotiation and the proof,
// verify, submit sequence. A client owns at most one withdrawal attempt at
// a time.
type HycClient interface {
	GetConfigData(ctx context.Context) (*types.Config, error)
	Init(ctx context.Context, args InitArgs) error
	Unlock(ctx context.Context, password string) error
	Lock(ctx context.Context, password string) error
	IsLocked(ctx context.Context) bool

	// ValidateTicket parses the ticket text and, when a plausible
	// recipient is already set, checks nullifier-spent status and
	// recipient allowlisting against the ledger.
	ValidateTicket(ctx context.Context, ticketText string) (*types.Note, error)
	// AnonymityScore scores the current note's pool population.
	AnonymityScore(ctx context.Context) (int, score.Tier, error)
	// SetRecipient records the recipient address and, once it reaches the
	// plausibility threshold, negotiates a fee quote. A recipient change
	// supersedes any outstanding quote.
	SetRecipient(ctx context.Context, address string) (*types.FeeQuote, error)
	// Quote returns the current fee quote, if any.
	Quote() *types.FeeQuote
	// Withdraw runs the proof, verify and submit phases. It is a no-op
	// when the attempt is already past quoting, so duplicate calls never
	// cause duplicate proofs or submissions.
	Withdraw(ctx context.Context) (*types.Withdrawal, error)

	Status() types.WithdrawStatus
	Progress() float64
	Reset(ctx context.Context)

	Balance(ctx context.Context, tokenContract string) (string, error)
	ApplyAllowlist(ctx context.Context) (string, error)
	GetWithdrawalHistory(ctx context.Context) ([]types.Withdrawal, error)
	ConsumeSessionFlag(ctx context.Context) (bool, error)

	Stop() error
}
