package types

import (
	"encoding/hex"
	"time"
)

const (
	NetworkTest    = "test"
	NetworkProd    = "prod"
	NetworkStaging = "staging"
	NetworkLocal   = "local"
)

const (
	InMemoryStore = "inmemory"
	FileStore     = "file"
)

// Config is the persisted SDK configuration, written once at Init time.
type Config struct {
	Network          string
	NodeURL          string
	RegistryContract string
	RelayerNetwork   string
	IndexerURL       string
	WalletType       string
	ClientType       string
	StoreType        string
	Datadir          string
}

// Note is the structured form of a withdrawal ticket. It is immutable:
// the codec derives all fields at parse time and nothing mutates them after.
type Note struct {
	PoolContract  string
	Secret        []byte
	Nullifier     []byte
	NullifierHash []byte
	Commitment    []byte
}

func (n *Note) NullifierHashHex() string {
	return hex.EncodeToString(n.NullifierHash)
}

func (n *Note) CommitmentHex() string {
	return hex.EncodeToString(n.Commitment)
}

type Currency struct {
	Type      string `json:"type"`
	AccountId string `json:"account_id,omitempty"`
}

// RelayerData identifies a relayer candidate returned by the directory.
type RelayerData struct {
	URL        string `json:"url"`
	Account    string `json:"account"`
	FeePercent string `json:"feePercent"`
}

// FeeQuote is a time-bounded fee offer from a relayer. Quotes are replaced
// wholesale on re-negotiation, never mutated; a new token means a new quote.
type FeeQuote struct {
	Token             string `json:"token"`
	NetworkFee        string `json:"human_network_fee"`
	RelayerFee        string `json:"formatted_token_fee"`
	RecipientReceives string `json:"formatted_user_will_receive"`
	ValidForMs        int64  `json:"valid_fee_for_ms"`

	RelayerURL     string    `json:"-"`
	RelayerAccount string    `json:"-"`
	Recipient      string    `json:"-"`
	IssuedAt       time.Time `json:"-"`
}

func (q *FeeQuote) ExpiresAt() time.Time {
	return q.IssuedAt.Add(time.Duration(q.ValidForMs) * time.Millisecond)
}

// Valid reports whether the quote can still be used at the given instant.
// A quote is usable strictly before issuedAt + validFor.
func (q *FeeQuote) Valid(now time.Time) bool {
	return now.Before(q.ExpiresAt())
}

// PublicArgs are the public inputs of the withdrawal proof, in the wire
// format expected by the pool contract's view_is_withdraw_valid.
type PublicArgs struct {
	Root          string `json:"root"`
	NullifierHash string `json:"nullifier_hash"`
	Recipient     string `json:"recipient"`
	Relayer       string `json:"relayer,omitempty"`
	Fee           string `json:"fee"`
	Refund        string `json:"refund"`
	AllowlistRoot string `json:"allowlist_root"`
}

// ProofPayload is the submittable output of the proof collaborator.
type ProofPayload struct {
	PublicArgs PublicArgs `json:"public_args"`
	Proof      []byte     `json:"proof"`
}

type WithdrawStatus string

const (
	StatusEditing    WithdrawStatus = "editing"
	StatusValidating WithdrawStatus = "validating"
	StatusQuoting    WithdrawStatus = "quoting"
	StatusProving    WithdrawStatus = "proving"
	StatusVerifying  WithdrawStatus = "verifying"
	StatusSubmitting WithdrawStatus = "submitting"
	StatusSuccess    WithdrawStatus = "success"
	StatusError      WithdrawStatus = "error"
)

// Withdrawal is the history record persisted after a confirmed withdrawal.
type Withdrawal struct {
	NullifierHash  string
	PoolContract   string
	Recipient      string
	RelayerAccount string
	RelayerFee     string
	Txid           string
	CreatedAt      time.Time
}
