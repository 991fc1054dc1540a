package filestore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	walletstore "github.com/hideyourcash/go-sdk/wallet/singlekey/store"
)

const (
	filename = "wallet.json"
)

type walletData struct {
	EncryptedPrvkey string `json:"encrypted_private_key"`
	PasswordHash    string `json:"password_hash"`
	PubKey          string `json:"pubkey"`
}

func (d walletData) isEmpty() bool {
	return d == walletData{}
}

func (d walletData) decode() walletstore.WalletData {
	encryptedPrvkey, _ := hex.DecodeString(d.EncryptedPrvkey)
	passwordHash, _ := hex.DecodeString(d.PasswordHash)
	buf, _ := hex.DecodeString(d.PubKey)
	pubkey, _ := secp256k1.ParsePubKey(buf)
	return walletstore.WalletData{
		EncryptedPrvkey: encryptedPrvkey,
		PasswordHash:    passwordHash,
		PubKey:          pubkey,
	}
}

type fileStore struct {
	filePath string
}

func NewWalletStore(baseDir string) (walletstore.WalletStore, error) {
	if err := makeDirectoryIfNotExists(baseDir); err != nil {
		return nil, fmt.Errorf("failed to initialize datadir: %s", err)
	}
	filePath := filepath.Join(baseDir, filename)

	store := &fileStore{filePath}
	if _, err := store.open(); err != nil {
		return nil, fmt.Errorf("failed to open file store: %s", err)
	}
	return store, nil
}

func (s *fileStore) AddWallet(data walletstore.WalletData) error {
	wd := &walletData{
		EncryptedPrvkey: hex.EncodeToString(data.EncryptedPrvkey),
		PasswordHash:    hex.EncodeToString(data.PasswordHash),
		PubKey:          hex.EncodeToString(data.PubKey.SerializeCompressed()),
	}

	if err := s.write(wd); err != nil {
		return fmt.Errorf("failed to write to file store: %s", err)
	}
	return nil
}

func (s *fileStore) GetWallet() (*walletstore.WalletData, error) {
	wd, err := s.open()
	if err != nil {
		return nil, err
	}
	if wd.isEmpty() {
		return nil, fmt.Errorf("wallet not initialized")
	}
	data := wd.decode()
	return &data, nil
}

func (s *fileStore) open() (*walletData, error) {
	wd := &walletData{}

	file, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := s.write(wd); err != nil {
			return nil, err
		}
		return wd, nil
	}

	if err := json.Unmarshal(file, wd); err != nil {
		return nil, err
	}
	return wd, nil
}

func (s *fileStore) write(wd *walletData) error {
	buf, err := json.Marshal(wd)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, buf, 0600)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
