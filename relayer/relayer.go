package relayer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hideyourcash/go-sdk/types"
)

// MinRecipientLen is the plausibility threshold for recipient addresses:
// no quote request is issued until the trimmed address reaches this length.
const MinRecipientLen = 10

var (
	ErrInvalidRecipient   = fmt.Errorf("relayer rejected recipient address")
	ErrRelayerUnreachable = fmt.Errorf("relayer unreachable")
	ErrQuoteTimeout       = fmt.Errorf("fee quote timed out")
	ErrStaleQuote         = fmt.Errorf("fee quote expired")
	ErrQuoteSuperseded    = fmt.Errorf("fee quote superseded")
	ErrNoQuote            = fmt.Errorf("no fee quote available")
)

// PlausibleRecipient reports whether an address is worth quoting for. It is
// a pure predicate so the debounce policy is testable without UI events.
func PlausibleRecipient(addr string) bool {
	return len(strings.TrimSpace(addr)) >= MinRecipientLen
}

type state int

const (
	stateIdle state = iota
	stateRequesting
	stateQuoted
	stateExpired
	stateSuperseded
	stateConsumed
)

// Directory selects relayer candidates for a network environment.
type Directory interface {
	RandomRelayer(ctx context.Context, network string) ([]types.RelayerData, error)
}

// QuoteService obtains a fee quote from a specific relayer.
type QuoteService interface {
	FeeQuote(
		ctx context.Context, relayer types.RelayerData,
		recipient, poolContract string,
	) (*types.FeeQuote, error)
}

// Negotiator owns the fee quote of a single withdrawal attempt. The quote
// is replaced wholesale on every successful re-quote; a recipient change
// supersedes any outstanding quote and logically cancels in-flight requests
// (their late results are dropped, not applied). At most one request is
// observable at a time per negotiator.
type Negotiator struct {
	mu sync.Mutex

	network   string
	directory Directory
	quotes    QuoteService
	now       func() time.Time

	state      state
	generation uint64
	recipient  string
	quote      *types.FeeQuote
}

type Option func(*Negotiator)

// WithClock overrides the time source, used by tests to pin quote expiry.
func WithClock(now func() time.Time) Option {
	return func(n *Negotiator) {
		n.now = now
	}
}

func NewNegotiator(
	directory Directory, quotes QuoteService, network string, opts ...Option,
) *Negotiator {
	negotiator := &Negotiator{
		network:   network,
		directory: directory,
		quotes:    quotes,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(negotiator)
	}
	return negotiator
}

// RequestQuote negotiates a fee quote for the recipient. A recipient below
// the plausibility threshold supersedes any outstanding quote and returns
// (nil, nil) without touching the network. If the recipient is superseded
// again while the request is in flight, the late result is dropped and
// ErrQuoteSuperseded returned.
func (n *Negotiator) RequestQuote(
	ctx context.Context, recipient, poolContract string,
) (*types.FeeQuote, error) {
	trimmed := strings.TrimSpace(recipient)

	n.mu.Lock()
	if trimmed == n.recipient && n.state == stateQuoted && n.quote.Valid(n.now()) {
		quote := n.quote
		n.mu.Unlock()
		return quote, nil
	}

	// any recipient change invalidates the current quote before a new one
	// is accepted
	if n.quote != nil {
		n.state = stateSuperseded
		n.quote = nil
	}
	n.generation++
	generation := n.generation
	n.recipient = trimmed

	if !PlausibleRecipient(trimmed) {
		n.state = stateIdle
		n.mu.Unlock()
		return nil, nil
	}
	n.state = stateRequesting
	n.mu.Unlock()

	relayers, err := n.directory.RandomRelayer(ctx, n.network)
	if err != nil {
		return nil, n.settleError(generation, err)
	}
	if len(relayers) == 0 {
		return nil, n.settleError(generation, ErrRelayerUnreachable)
	}
	relayer := relayers[0]

	quote, err := n.quotes.FeeQuote(ctx, relayer, trimmed, poolContract)
	if err != nil {
		return nil, n.settleError(generation, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.generation != generation {
		log.Debugf("dropping superseded fee quote %s", quote.Token)
		return nil, ErrQuoteSuperseded
	}

	quote.RelayerURL = relayer.URL
	quote.RelayerAccount = relayer.Account
	quote.Recipient = trimmed
	quote.IssuedAt = n.now()
	n.quote = quote
	n.state = stateQuoted
	return quote, nil
}

// Quote returns the current quote, or nil when none is outstanding or the
// outstanding one has expired.
func (n *Negotiator) Quote() *types.FeeQuote {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != stateQuoted || n.quote == nil {
		return nil
	}
	if !n.quote.Valid(n.now()) {
		return nil
	}
	return n.quote
}

func (n *Negotiator) Recipient() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.recipient
}

// Consume hands the quote over for submission exactly once. An expired
// quote fails fast with ErrStaleQuote before any proving work starts.
func (n *Negotiator) Consume() (*types.FeeQuote, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != stateQuoted || n.quote == nil {
		return nil, ErrNoQuote
	}
	if !n.quote.Valid(n.now()) {
		n.state = stateExpired
		return nil, fmt.Errorf("%w: expired at %s", ErrStaleQuote, n.quote.ExpiresAt())
	}

	quote := n.quote
	n.state = stateConsumed
	n.quote = nil
	return quote, nil
}

// Invalidate discards the current quote, e.g. after a failed proof when
// pool state may have shifted.
func (n *Negotiator) Invalidate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.quote = nil
	if n.state == stateQuoted || n.state == stateConsumed {
		n.state = stateIdle
	}
}

func (n *Negotiator) settleError(generation uint64, err error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.generation != generation {
		return ErrQuoteSuperseded
	}
	n.state = stateIdle

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrQuoteTimeout, err)
	}
	return err
}
