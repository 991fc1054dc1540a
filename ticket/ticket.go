package ticket

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/hideyourcash/go-sdk/types"
)

// Ticket grammar: hyc-<pool contract>-<64 hex secret chars><8 hex checksum>.
// The pool contract may itself contain dashes, so the payload is always the
// last dash-separated field and the prefix the first.
const (
	TicketPrefix = "hyc"

	// MinTicketLen gates validation: shorter input is treated as "no
	// ticket provided" rather than malformed, so partial input never
	// triggers errors or remote checks.
	MinTicketLen = 10

	secretHexLen   = 64
	checksumHexLen = 8
)

var (
	ErrEmptyTicket     = fmt.Errorf("no ticket provided")
	ErrMalformedTicket = fmt.Errorf("malformed ticket")
	ErrUnknownPool     = fmt.Errorf("unknown pool contract")
)

// Registry is the subset of the view facade the codec needs to recognize
// pool contracts.
type Registry interface {
	IsContractAllowed(ctx context.Context, contract string) (bool, error)
}

type Codec struct {
	registry Registry
}

func NewCodec(registry Registry) *Codec {
	return &Codec{registry: registry}
}

// Parse decodes the ticket and cross-checks the embedded pool contract
// against the registry, failing with ErrUnknownPool if it is not allowed.
func (c *Codec) Parse(ctx context.Context, text string) (*types.Note, error) {
	note, err := Decode(text)
	if err != nil {
		return nil, err
	}

	if c.registry != nil {
		allowed, err := c.registry.IsContractAllowed(ctx, note.PoolContract)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPool, note.PoolContract)
		}
	}
	return note, nil
}

// Decode is the pure half of the codec: deterministic, no side effects,
// never panics on arbitrary input. Parsing the same text twice yields
// structurally equal notes.
func Decode(text string) (*types.Note, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTicketLen {
		return nil, ErrEmptyTicket
	}

	parts := strings.Split(trimmed, "-")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: expected prefix, contract and secret fields", ErrMalformedTicket)
	}
	if !strings.EqualFold(parts[0], TicketPrefix) {
		return nil, fmt.Errorf("%w: bad prefix '%s'", ErrMalformedTicket, parts[0])
	}

	contract := strings.Join(parts[1:len(parts)-1], "-")
	if len(contract) <= 0 {
		return nil, fmt.Errorf("%w: empty pool contract", ErrMalformedTicket)
	}

	payload := parts[len(parts)-1]
	if len(payload) != secretHexLen+checksumHexLen {
		return nil, fmt.Errorf("%w: bad payload length %d", ErrMalformedTicket, len(payload))
	}
	secret, err := hex.DecodeString(payload[:secretHexLen])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid secret encoding", ErrMalformedTicket)
	}
	checksum, err := hex.DecodeString(payload[secretHexLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid checksum encoding", ErrMalformedTicket)
	}
	if !bytes.Equal(checksumOf(secret), checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrMalformedTicket)
	}

	return noteFromSecret(contract, secret), nil
}

// Encode rebuilds the ticket text for a note. Decode(Encode(n)) always
// yields a note equal to n.
func Encode(note *types.Note) string {
	payload := hex.EncodeToString(note.Secret) +
		hex.EncodeToString(checksumOf(note.Secret))
	return fmt.Sprintf("%s-%s-%s", TicketPrefix, note.PoolContract, payload)
}

// New generates a fresh note for a pool and returns it together with its
// ticket text. Used on the deposit side and in tests.
func New(poolContract string) (*types.Note, string, error) {
	if len(poolContract) <= 0 {
		return nil, "", fmt.Errorf("missing pool contract")
	}

	var element fr.Element
	if _, err := element.SetRandom(); err != nil {
		return nil, "", err
	}
	secret := element.Marshal()

	note := noteFromSecret(poolContract, secret)
	return note, Encode(note), nil
}

func noteFromSecret(contract string, secret []byte) *types.Note {
	nullifier := mimcHash(secret)
	return &types.Note{
		PoolContract:  contract,
		Secret:        secret,
		Nullifier:     nullifier,
		NullifierHash: mimcHash(nullifier),
		Commitment:    mimcHash(secret, nullifier),
	}
}

// mimcHash hashes its inputs over the bn254 scalar field, matching the MiMC
// sponge the pool contract uses for nullifier and commitment hashes. Inputs
// are reduced into the field before hashing so arbitrary 32-byte strings are
// always valid blocks.
func mimcHash(inputs ...[]byte) []byte {
	h := mimc.NewMiMC()
	for _, input := range inputs {
		var element fr.Element
		element.SetBytes(input)
		buf := element.Bytes()
		// Write only fails on non-reduced blocks, which cannot happen here.
		_, _ = h.Write(buf[:])
	}
	return h.Sum(nil)
}

func checksumOf(secret []byte) []byte {
	sum := sha256.Sum256(secret)
	return sum[:4]
}
