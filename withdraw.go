package hycsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/hideyourcash/go-sdk/prover"
	"github.com/hideyourcash/go-sdk/relayer"
	"github.com/hideyourcash/go-sdk/score"
	"github.com/hideyourcash/go-sdk/types"
)

// withdrawalAttempt is the single in-flight withdrawal of a client. All
// phase transitions are serialized behind the mutex; the note, quote and
// payload are replaced wholesale, never edited in place.
type withdrawalAttempt struct {
	mu sync.Mutex

	status      types.WithdrawStatus
	note        *types.Note
	ticketText  string
	recipient   string
	progress    float64
	cancelProof context.CancelFunc
}

func newAttempt() *withdrawalAttempt {
	return &withdrawalAttempt{status: types.StatusEditing}
}

func (c *hycClient) Status() types.WithdrawStatus {
	c.attempt.mu.Lock()
	defer c.attempt.mu.Unlock()
	return c.attempt.status
}

func (c *hycClient) Progress() float64 {
	c.attempt.mu.Lock()
	defer c.attempt.mu.Unlock()
	return c.attempt.progress
}

// Reset discards the current attempt, cancelling any in-flight proof, and
// returns the client to editing.
func (c *hycClient) Reset(_ context.Context) {
	c.attempt.mu.Lock()
	defer c.attempt.mu.Unlock()
	c.resetLocked()
}

func (c *hycClient) resetLocked() {
	if c.attempt.cancelProof != nil {
		c.attempt.cancelProof()
		c.attempt.cancelProof = nil
	}
	if c.negotiator != nil {
		c.negotiator.Invalidate()
	}
	c.attempt.status = types.StatusEditing
	c.attempt.note = nil
	c.attempt.ticketText = ""
	c.attempt.recipient = ""
	c.attempt.progress = 0
}

func (c *hycClient) ValidateTicket(
	ctx context.Context, ticketText string,
) (*types.Note, error) {
	if err := c.safeCheck(); err != nil {
		return nil, err
	}

	note, err := c.codec.Parse(ctx, ticketText)
	if err != nil {
		// any parse failure drops the held note, so a ticket no longer in
		// the input field can never reach Withdraw
		c.attempt.mu.Lock()
		c.attempt.note = nil
		c.attempt.ticketText = ""
		c.attempt.mu.Unlock()
		return nil, err
	}

	c.attempt.mu.Lock()
	c.attempt.note = note
	c.attempt.ticketText = strings.TrimSpace(ticketText)
	c.attempt.status = types.StatusValidating
	recipient := c.attempt.recipient
	c.attempt.mu.Unlock()

	if err := c.runLedgerChecks(ctx, note, recipient); err != nil {
		return nil, err
	}

	c.setStatus(types.StatusEditing)
	return note, nil
}

// runLedgerChecks issues the nullifier-spent and recipient-allowlist
// queries concurrently; both must complete successfully before the attempt
// advances past validating.
func (c *hycClient) runLedgerChecks(
	ctx context.Context, note *types.Note, recipient string,
) error {
	var (
		wg          sync.WaitGroup
		spent       bool
		spentErr    error
		allowed     = true
		allowedErr  error
		checkWallet = relayer.PlausibleRecipient(recipient)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		spent, spentErr = c.views.IsNullifierSpent(
			ctx, note.PoolContract, note.NullifierHashHex(),
		)
	}()

	if checkWallet {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, allowedErr = c.views.IsAccountAllowlisted(ctx, recipient)
		}()
	}
	wg.Wait()

	if spentErr != nil {
		c.setStatus(types.StatusEditing)
		return spentErr
	}
	if allowedErr != nil {
		c.setStatus(types.StatusEditing)
		return allowedErr
	}

	if spent {
		c.setStatus(types.StatusError)
		return fmt.Errorf("%w: nullifier %s", ErrNullifierSpent, note.NullifierHashHex())
	}
	if !allowed {
		c.setStatus(types.StatusEditing)
		return fmt.Errorf("%w: %s", ErrRecipientNotAllowlisted, recipient)
	}
	return nil
}

func (c *hycClient) AnonymityScore(
	ctx context.Context,
) (int, score.Tier, error) {
	if err := c.safeCheck(); err != nil {
		return 0, "", err
	}
	if c.scorer == nil {
		return 0, "", fmt.Errorf("no population source configured")
	}

	c.attempt.mu.Lock()
	note := c.attempt.note
	c.attempt.mu.Unlock()
	if note == nil {
		return 0, "", fmt.Errorf("no ticket loaded")
	}

	return c.scorer.ScoreTier(ctx, note)
}

func (c *hycClient) SetRecipient(
	ctx context.Context, address string,
) (*types.FeeQuote, error) {
	if err := c.safeCheck(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(address)

	c.attempt.mu.Lock()
	// a recipient change while proving makes the proof useless: its quote
	// is already superseded, so the computation is cancelled outright
	if c.attempt.status == types.StatusProving &&
		trimmed != c.attempt.recipient && c.attempt.cancelProof != nil {
		log.Debug("recipient changed while proving, cancelling proof")
		c.attempt.cancelProof()
		c.attempt.cancelProof = nil
		c.attempt.status = types.StatusEditing
	}
	c.attempt.recipient = trimmed
	note := c.attempt.note
	if note != nil && relayer.PlausibleRecipient(trimmed) {
		c.attempt.status = types.StatusQuoting
	}
	c.attempt.mu.Unlock()

	if note == nil {
		// no pool to quote against yet; the recipient is kept on the
		// attempt so a later ticket paste can re-quote
		return nil, nil
	}

	quote, err := c.negotiator.RequestQuote(ctx, trimmed, note.PoolContract)

	c.attempt.mu.Lock()
	if c.attempt.status == types.StatusQuoting {
		c.attempt.status = types.StatusEditing
	}
	c.attempt.mu.Unlock()

	if errors.Is(err, relayer.ErrQuoteSuperseded) {
		return nil, nil
	}
	return quote, err
}

func (c *hycClient) Quote() *types.FeeQuote {
	if c.negotiator == nil {
		return nil
	}
	return c.negotiator.Quote()
}

func (c *hycClient) Withdraw(ctx context.Context) (*types.Withdrawal, error) {
	if err := c.safeCheck(); err != nil {
		return nil, err
	}
	if c.prover == nil {
		return nil, ErrMissingProver
	}

	c.attempt.mu.Lock()
	switch c.attempt.status {
	case types.StatusProving, types.StatusVerifying, types.StatusSubmitting:
		// duplicate call on a running attempt: ignore, never re-prove or
		// re-submit
		c.attempt.mu.Unlock()
		log.Debugf("withdraw already in progress, ignoring duplicate call")
		return nil, nil
	}

	note := c.attempt.note
	recipient := c.attempt.recipient
	if note == nil {
		c.attempt.mu.Unlock()
		return nil, &PreconditionError{Reason: "no valid ticket loaded"}
	}
	if !relayer.PlausibleRecipient(recipient) {
		c.attempt.mu.Unlock()
		return nil, &PreconditionError{Reason: "missing recipient address"}
	}
	c.attempt.mu.Unlock()

	// the ledger re-check runs before the quote is consumed: a transient
	// query failure must leave the still-valid quote in place for a retry
	spent, err := c.views.IsNullifierSpent(
		ctx, note.PoolContract, note.NullifierHashHex(),
	)
	if err != nil {
		return nil, err
	}
	if spent {
		c.setStatus(types.StatusError)
		return nil, fmt.Errorf("%w: nullifier %s", ErrNullifierSpent, note.NullifierHashHex())
	}

	// expiry is checked on consumption; a stale quote fails fast before
	// any proving work starts
	quote, err := c.negotiator.Consume()
	if err != nil {
		if errors.Is(err, relayer.ErrNoQuote) {
			return nil, &PreconditionError{Reason: "no fee quote negotiated"}
		}
		return nil, err
	}
	if quote.Recipient != recipient {
		return nil, &PreconditionError{
			Reason: "fee quote was negotiated for a different recipient",
		}
	}

	proofCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.attempt.mu.Lock()
	c.attempt.status = types.StatusProving
	c.attempt.progress = 0
	c.attempt.cancelProof = cancel
	c.attempt.mu.Unlock()

	payload, err := c.prover.Prove(proofCtx, prover.Request{
		Note:           note,
		Recipient:      recipient,
		RelayerAccount: quote.RelayerAccount,
		Fee:            quote.RelayerFee,
	}, prover.Monotonic(c.reportProgress))

	c.attempt.mu.Lock()
	c.attempt.cancelProof = nil
	c.attempt.mu.Unlock()

	if err != nil {
		// pool state may have shifted while proving: the consumed quote
		// stays discarded, the entered values survive for a retry
		c.setStatus(types.StatusEditing)
		return nil, fmt.Errorf("%w: %s", ErrProofGenerationFailed, err)
	}

	c.setStatus(types.StatusVerifying)
	valid, err := c.views.IsWithdrawValid(ctx, payload.PublicArgs, note.PoolContract)
	if err != nil {
		c.setStatus(types.StatusEditing)
		return nil, err
	}
	if !valid {
		c.setStatus(types.StatusError)
		return nil, ErrInvalidProof
	}

	c.setStatus(types.StatusSubmitting)
	txid, err := c.submit(ctx, quote, payload)
	if err != nil {
		c.setStatus(types.StatusError)
		return nil, fmt.Errorf("%w: %s", ErrSubmissionFailed, err)
	}

	record := types.Withdrawal{
		NullifierHash:  note.NullifierHashHex(),
		PoolContract:   note.PoolContract,
		Recipient:      recipient,
		RelayerAccount: quote.RelayerAccount,
		RelayerFee:     quote.RelayerFee,
		Txid:           txid,
		CreatedAt:      c.now(),
	}
	if err := c.history.AddWithdrawal(ctx, record); err != nil {
		log.WithError(err).Warn("failed to record withdrawal")
	}
	if err := c.history.SetSessionFlag(ctx); err != nil {
		log.WithError(err).Warn("failed to set session flag")
	}

	// spent secret material must not survive a successful withdrawal
	c.attempt.mu.Lock()
	c.attempt.note = nil
	c.attempt.ticketText = ""
	c.attempt.status = types.StatusSuccess
	c.attempt.mu.Unlock()

	log.Debugf("withdrawal submitted: %s", txid)
	return &record, nil
}

func (c *hycClient) submit(
	ctx context.Context, quote *types.FeeQuote, payload *types.ProofPayload,
) (string, error) {
	if len(quote.RelayerURL) > 0 && c.submitter != nil {
		return c.submitter.Relay(ctx, quote.RelayerURL, quote.Token, *payload)
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return c.wallet.SignAndSubmit(ctx, c.node, buf)
}

func (c *hycClient) reportProgress(pct float64) {
	c.attempt.mu.Lock()
	defer c.attempt.mu.Unlock()
	c.attempt.progress = pct
}

func (c *hycClient) setStatus(status types.WithdrawStatus) {
	c.attempt.mu.Lock()
	defer c.attempt.mu.Unlock()
	c.attempt.status = status
}
