package client

import (
	"context"
	"encoding/json"
)

const (
	JSONRPCClient = "jsonrpc"
)

// NodeClient is the transport boundary to the ledger node. It exposes the
// view-query and submission capabilities the SDK needs and nothing else;
// retries and connection management belong to the implementation.
type NodeClient interface {
	// CallView invokes a read-only contract method and returns the raw
	// JSON-encoded result.
	CallView(
		ctx context.Context, contract, method string, args interface{},
	) (json.RawMessage, error)
	// AccountBalance returns the native balance of an account as a
	// decimal string in minimal units.
	AccountBalance(ctx context.Context, accountId string) (string, error)
	// SubmitTransaction broadcasts a signed transaction and waits for its
	// inclusion, returning the transaction hash.
	SubmitTransaction(ctx context.Context, signedTx []byte) (string, error)
	Close()
}

type Factory func(nodeURL string) (NodeClient, error)
