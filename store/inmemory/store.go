package inmemorystore

import (
	"context"
	"sync"

	"github.com/hideyourcash/go-sdk/types"
)

type configStore struct {
	lock *sync.RWMutex
	data *types.Config
}

func NewConfigStore() (types.ConfigStore, error) {
	return &configStore{
		lock: &sync.RWMutex{},
	}, nil
}

func (s *configStore) GetType() string {
	return types.InMemoryStore
}

func (s *configStore) GetDatadir() string {
	return ""
}

func (s *configStore) AddData(_ context.Context, data types.Config) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data = &data
	return nil
}

func (s *configStore) GetData(_ context.Context) (*types.Config, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.data == nil {
		return nil, nil
	}
	data := *s.data
	return &data, nil
}

func (s *configStore) CleanData(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data = nil
	return nil
}
