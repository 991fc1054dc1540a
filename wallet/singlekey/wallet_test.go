package singlekeywallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/require"

	inmemorystore "github.com/hideyourcash/go-sdk/wallet/singlekey/store/inmemory"
)

const testPassword = "correct horse battery staple"

func TestCreateUnlockLock(t *testing.T) {
	w, err := NewWallet(inmemorystore.NewWalletStore())
	require.NoError(t, err)

	seed, err := w.Create(context.Background(), testPassword, "")
	require.NoError(t, err)
	require.Len(t, seed, 64)
	require.True(t, w.IsLocked())

	require.Error(t, w.Unlock(context.Background(), "wrong password"))
	require.True(t, w.IsLocked())

	require.NoError(t, w.Unlock(context.Background(), testPassword))
	require.False(t, w.IsLocked())

	dumped, err := w.Dump(context.Background())
	require.NoError(t, err)
	require.Equal(t, seed, dumped)

	require.NoError(t, w.Lock(context.Background(), testPassword))
	require.True(t, w.IsLocked())

	_, err = w.Dump(context.Background())
	require.Error(t, err)
}

func TestCreateFromSeed(t *testing.T) {
	w, err := NewWallet(inmemorystore.NewWalletStore())
	require.NoError(t, err)

	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	seed := hex.EncodeToString(key.Serialize())

	returned, err := w.Create(context.Background(), testPassword, seed)
	require.NoError(t, err)
	require.Equal(t, seed, returned)

	identity, err := w.Identity(context.Background())
	require.NoError(t, err)
	require.Equal(
		t, hex.EncodeToString(key.PubKey().SerializeCompressed()), identity,
	)
}

func TestIdentityAvailableWhileLocked(t *testing.T) {
	w, err := NewWallet(inmemorystore.NewWalletStore())
	require.NoError(t, err)

	_, err = w.Identity(context.Background())
	require.Error(t, err)

	_, err = w.Create(context.Background(), testPassword, "")
	require.NoError(t, err)

	require.True(t, w.IsLocked())
	identity, err := w.Identity(context.Background())
	require.NoError(t, err)
	require.Len(t, identity, 66)
}

type captureNode struct {
	submitted []byte
}

func (n *captureNode) CallView(
	_ context.Context, _, _ string, _ interface{},
) (json.RawMessage, error) {
	return nil, nil
}

func (n *captureNode) AccountBalance(_ context.Context, _ string) (string, error) {
	return "0", nil
}

func (n *captureNode) SubmitTransaction(_ context.Context, signedTx []byte) (string, error) {
	n.submitted = signedTx
	return "tx-hash", nil
}

func (n *captureNode) Close() {}

func TestSignAndSubmit(t *testing.T) {
	w, err := NewWallet(inmemorystore.NewWalletStore())
	require.NoError(t, err)

	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	_, err = w.Create(
		context.Background(), testPassword, hex.EncodeToString(key.Serialize()),
	)
	require.NoError(t, err)

	node := &captureNode{}
	payload := []byte(`{"contract":"registry.near"}`)

	_, err = w.SignAndSubmit(context.Background(), node, payload)
	require.Error(t, err) // locked

	require.NoError(t, w.Unlock(context.Background(), testPassword))
	txid, err := w.SignAndSubmit(context.Background(), node, payload)
	require.NoError(t, err)
	require.Equal(t, "tx-hash", txid)

	// the broadcast is signature followed by the payload
	sigLen := len(node.submitted) - len(payload)
	require.Greater(t, sigLen, 0)
	require.Equal(t, payload, node.submitted[sigLen:])

	sig, err := ecdsa.ParseDERSignature(node.submitted[:sigLen])
	require.NoError(t, err)
	digest := sha256.Sum256(payload)
	require.True(t, sig.Verify(digest[:], key.PubKey()))
}
