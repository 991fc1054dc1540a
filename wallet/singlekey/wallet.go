package singlekeywallet

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/hideyourcash/go-sdk/client"
	"github.com/hideyourcash/go-sdk/internal/utils"
	"github.com/hideyourcash/go-sdk/wallet"
	walletstore "github.com/hideyourcash/go-sdk/wallet/singlekey/store"
)

type singlekeyWallet struct {
	walletStore walletstore.WalletStore
	privateKey  *secp256k1.PrivateKey
	walletData  *walletstore.WalletData
}

func NewWallet(store walletstore.WalletStore) (wallet.WalletService, error) {
	walletData, _ := store.GetWallet()
	return &singlekeyWallet{
		walletStore: store,
		walletData:  walletData,
	}, nil
}

func (w *singlekeyWallet) GetType() string {
	return wallet.SingleKeyWallet
}

func (w *singlekeyWallet) Create(
	_ context.Context, password, seed string,
) (string, error) {
	var privateKey *secp256k1.PrivateKey
	if len(seed) <= 0 {
		privKey, err := utils.GenerateRandomPrivateKey()
		if err != nil {
			return "", err
		}
		privateKey = privKey
	} else {
		privKeyBytes, err := hex.DecodeString(seed)
		if err != nil {
			return "", fmt.Errorf("invalid private key format: %s", err)
		}
		privateKey = secp256k1.PrivKeyFromBytes(privKeyBytes)
	}

	pwd := []byte(password)
	passwordHash := utils.HashPassword(pwd)
	pubkey := privateKey.PubKey()
	buf := privateKey.Serialize()
	encryptedPrivateKey, err := utils.EncryptAES256(buf, pwd)
	if err != nil {
		return "", err
	}

	walletData := walletstore.WalletData{
		EncryptedPrvkey: encryptedPrivateKey,
		PasswordHash:    passwordHash,
		PubKey:          pubkey,
	}
	if err := w.walletStore.AddWallet(walletData); err != nil {
		return "", err
	}

	w.walletData = &walletData

	return hex.EncodeToString(privateKey.Serialize()), nil
}

func (w *singlekeyWallet) Lock(_ context.Context, password string) error {
	if w.walletData == nil {
		return fmt.Errorf("wallet not initialized")
	}

	if w.privateKey == nil {
		return nil
	}

	pwd := []byte(password)
	currentPassHash := utils.HashPassword(pwd)

	if !bytes.Equal(w.walletData.PasswordHash, currentPassHash) {
		return fmt.Errorf("invalid password")
	}

	w.privateKey = nil
	return nil
}

func (w *singlekeyWallet) Unlock(_ context.Context, password string) error {
	if w.walletData == nil {
		return fmt.Errorf("wallet not initialized")
	}

	if w.privateKey != nil {
		return nil
	}

	pwd := []byte(password)
	currentPassHash := utils.HashPassword(pwd)

	if !bytes.Equal(w.walletData.PasswordHash, currentPassHash) {
		return fmt.Errorf("invalid password")
	}

	privateKeyBytes, err := utils.DecryptAES256(w.walletData.EncryptedPrvkey, pwd)
	if err != nil {
		return err
	}

	w.privateKey = secp256k1.PrivKeyFromBytes(privateKeyBytes)
	return nil
}

func (w *singlekeyWallet) IsLocked() bool {
	return w.privateKey == nil
}

func (w *singlekeyWallet) Dump(_ context.Context) (string, error) {
	if w.privateKey == nil {
		return "", fmt.Errorf("wallet is locked")
	}
	return hex.EncodeToString(w.privateKey.Serialize()), nil
}

func (w *singlekeyWallet) Identity(_ context.Context) (string, error) {
	if w.walletData == nil {
		return "", fmt.Errorf("wallet not initialized")
	}
	return hex.EncodeToString(w.walletData.PubKey.SerializeCompressed()), nil
}

func (w *singlekeyWallet) SignAndSubmit(
	ctx context.Context, node client.NodeClient, payload []byte,
) (string, error) {
	if w.privateKey == nil {
		return "", fmt.Errorf("wallet is locked")
	}

	digest := sha256.Sum256(payload)
	signature := ecdsa.Sign(w.privateKey, digest[:])

	signedTx := append(signature.Serialize(), payload...)
	return node.SubmitTransaction(ctx, signedTx)
}
