package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/hideyourcash/go-sdk/types"
)

const (
	filename = "config.json"
)

type configData struct {
	Network          string `json:"network"`
	NodeURL          string `json:"node_url"`
	RegistryContract string `json:"registry_contract"`
	RelayerNetwork   string `json:"relayer_network"`
	IndexerURL       string `json:"indexer_url"`
	WalletType       string `json:"wallet_type"`
	ClientType       string `json:"client_type"`
	StoreType        string `json:"store_type"`
	Datadir          string `json:"datadir"`
}

func (d configData) isEmpty() bool {
	return d == configData{}
}

func (d configData) decode() types.Config {
	return types.Config{
		Network:          d.Network,
		NodeURL:          d.NodeURL,
		RegistryContract: d.RegistryContract,
		RelayerNetwork:   d.RelayerNetwork,
		IndexerURL:       d.IndexerURL,
		WalletType:       d.WalletType,
		ClientType:       d.ClientType,
		StoreType:        d.StoreType,
		Datadir:          d.Datadir,
	}
}

type configStore struct {
	lock     *sync.Mutex
	filePath string
	datadir  string
}

func NewConfigStore(baseDir string) (types.ConfigStore, error) {
	if err := makeDirectoryIfNotExists(baseDir); err != nil {
		return nil, fmt.Errorf("failed to initialize datadir: %s", err)
	}

	return &configStore{
		lock:     &sync.Mutex{},
		filePath: filepath.Join(baseDir, filename),
		datadir:  baseDir,
	}, nil
}

func (s *configStore) GetType() string {
	return types.FileStore
}

func (s *configStore) GetDatadir() string {
	return s.datadir
}

func (s *configStore) AddData(_ context.Context, data types.Config) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	cfg := configData{
		Network:          data.Network,
		NodeURL:          data.NodeURL,
		RegistryContract: data.RegistryContract,
		RelayerNetwork:   data.RelayerNetwork,
		IndexerURL:       data.IndexerURL,
		WalletType:       data.WalletType,
		ClientType:       data.ClientType,
		StoreType:        data.StoreType,
		Datadir:          data.Datadir,
	}

	buf, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.filePath, buf, 0600); err != nil {
		return fmt.Errorf("failed to write config: %s", err)
	}

	log.Debugf("config data persisted to %s", s.filePath)
	return nil
}

func (s *configStore) GetData(_ context.Context) (*types.Config, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	file, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg := configData{}
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	if cfg.isEmpty() {
		return nil, nil
	}

	data := cfg.decode()
	return &data, nil
}

func (s *configStore) CleanData(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clean config: %s", err)
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
