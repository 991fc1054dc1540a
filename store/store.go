package store

import (
	"fmt"

	filestore "github.com/hideyourcash/go-sdk/store/file"
	inmemorystore "github.com/hideyourcash/go-sdk/store/inmemory"
	"github.com/hideyourcash/go-sdk/types"
)

type Config struct {
	ConfigStoreType string
	BaseDir         string
}

func NewConfigStore(storeConfig Config) (types.ConfigStore, error) {
	switch storeConfig.ConfigStoreType {
	case types.InMemoryStore:
		return inmemorystore.NewConfigStore()
	case types.FileStore:
		return filestore.NewConfigStore(storeConfig.BaseDir)
	default:
		return nil, fmt.Errorf("unknown config store type '%s'", storeConfig.ConfigStoreType)
	}
}
