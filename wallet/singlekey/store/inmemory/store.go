package inmemorystore

import (
	"fmt"
	"sync"

	walletstore "github.com/hideyourcash/go-sdk/wallet/singlekey/store"
)

type inmemoryStore struct {
	lock *sync.RWMutex
	data *walletstore.WalletData
}

func NewWalletStore() walletstore.WalletStore {
	return &inmemoryStore{
		lock: &sync.RWMutex{},
	}
}

func (s *inmemoryStore) AddWallet(data walletstore.WalletData) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data = &data
	return nil
}

func (s *inmemoryStore) GetWallet() (*walletstore.WalletData, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.data == nil {
		return nil, fmt.Errorf("wallet not initialized")
	}
	data := *s.data
	return &data, nil
}
