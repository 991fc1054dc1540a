package views

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hideyourcash/go-sdk/client"
	"github.com/hideyourcash/go-sdk/types"
)

// QueryError wraps any transport or decoding failure of a view query.
// Ambiguous ledger responses are never collapsed into a boolean result.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %s", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Views is a stateless read-only gateway to the pool's ledger view
// functions. Every call re-queries the node, nothing is cached.
type Views struct {
	node     client.NodeClient
	contract string

	directory *relayerDirectory
}

type Option func(*Views)

// WithRelayerDirectoryURL overrides the base endpoint of the relayer
// directory for a given network.
func WithRelayerDirectoryURL(network, baseURL string) Option {
	return func(v *Views) {
		v.directory.baseURLs[network] = baseURL
	}
}

func NewViews(node client.NodeClient, registryContract string, opts ...Option) *Views {
	views := &Views{
		node:      node,
		contract:  registryContract,
		directory: newRelayerDirectory(),
	}
	for _, opt := range opts {
		opt(views)
	}
	return views
}

func (v *Views) IsAccountAllowlisted(
	ctx context.Context, accountId string,
) (bool, error) {
	var allowed bool
	if err := v.call(ctx, v.contract, "view_is_in_allowlist", map[string]interface{}{
		"account_id": accountId,
	}, &allowed); err != nil {
		return false, err
	}
	return allowed, nil
}

func (v *Views) AccountHash(
	ctx context.Context, accountId string,
) (string, error) {
	var hash string
	if err := v.call(ctx, v.contract, "view_account_hash", map[string]interface{}{
		"account_id": accountId,
	}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (v *Views) AllCurrencies(ctx context.Context) ([]types.Currency, error) {
	var currencies []types.Currency
	if err := v.call(
		ctx, v.contract, "view_all_currencies",
		map[string]interface{}{}, &currencies,
	); err != nil {
		return nil, err
	}
	return currencies, nil
}

func (v *Views) CurrencyContracts(
	ctx context.Context, currency types.Currency,
) ([]string, error) {
	var contracts []string
	if err := v.call(ctx, v.contract, "view_currency_contracts", map[string]interface{}{
		"currency": currency,
	}, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func (v *Views) IsContractAllowed(
	ctx context.Context, contract string,
) (bool, error) {
	var allowed bool
	if err := v.call(ctx, v.contract, "view_is_contract_allowed", map[string]interface{}{
		"account_id": contract,
	}, &allowed); err != nil {
		return false, err
	}
	return allowed, nil
}

func (v *Views) IsAllowlistRootValid(
	ctx context.Context, root string,
) (bool, error) {
	var valid bool
	if err := v.call(ctx, v.contract, "view_is_allowlist_root_valid", map[string]interface{}{
		"root": root,
	}, &valid); err != nil {
		return false, err
	}
	return valid, nil
}

func (v *Views) RelayerHash(
	ctx context.Context, relayer types.RelayerData,
) (string, error) {
	var hash string
	if err := v.call(ctx, v.contract, "view_relayer_hash", map[string]interface{}{
		"account_id": relayer.Account,
	}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

// IsWithdrawValid checks the proof public args against the pool contract.
// It must be called before submission; false means the proof is stale or
// invalid and the payload must not reach the ledger.
func (v *Views) IsWithdrawValid(
	ctx context.Context, args types.PublicArgs, poolContract string,
) (bool, error) {
	var valid bool
	if err := v.call(
		ctx, poolContract, "view_is_withdraw_valid", args, &valid,
	); err != nil {
		return false, err
	}
	return valid, nil
}

// IsNullifierSpent reports whether the note behind the given nullifier hash
// has already been withdrawn from the pool.
func (v *Views) IsNullifierSpent(
	ctx context.Context, poolContract, nullifierHash string,
) (bool, error) {
	var spent bool
	if err := v.call(ctx, poolContract, "view_was_nullifier_spent", map[string]interface{}{
		"nullifier": nullifierHash,
	}, &spent); err != nil {
		return false, err
	}
	return spent, nil
}

// AccountBalance returns the balance of accountId. An empty contract means
// the native ledger balance, anything else is treated as a token contract.
func (v *Views) AccountBalance(
	ctx context.Context, contract, accountId string,
) (string, error) {
	if len(contract) <= 0 {
		balance, err := v.node.AccountBalance(ctx, accountId)
		if err != nil {
			return "", &QueryError{Op: "view_account", Err: err}
		}
		return balance, nil
	}

	var balance string
	if err := v.call(ctx, contract, "ft_balance_of", map[string]interface{}{
		"account_id": accountId,
	}, &balance); err != nil {
		return "", err
	}
	return balance, nil
}

func (v *Views) call(
	ctx context.Context, contract, method string, args, out interface{},
) error {
	result, err := v.node.CallView(ctx, contract, method, args)
	if err != nil {
		return &QueryError{Op: method, Err: err}
	}
	if err := json.Unmarshal(result, out); err != nil {
		return &QueryError{Op: method, Err: err}
	}
	return nil
}
