package wallet

import (
	"context"

	"github.com/hideyourcash/go-sdk/client"
)

const (
	SingleKeyWallet = "singlekey"
)

// WalletService is the signing collaborator: the SDK needs a signer
// identity and the ability to sign and submit a payload, not key custody.
type WalletService interface {
	GetType() string
	Create(ctx context.Context, password, seed string) (string, error)
	Lock(ctx context.Context, password string) error
	Unlock(ctx context.Context, password string) error
	IsLocked() bool
	Dump(ctx context.Context) (seed string, err error)
	// Identity returns the current signer identity.
	Identity(ctx context.Context) (string, error)
	// SignAndSubmit signs the payload and broadcasts it through the node,
	// returning the transaction hash.
	SignAndSubmit(
		ctx context.Context, node client.NodeClient, payload []byte,
	) (string, error)
}
