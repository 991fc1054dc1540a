package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/hideyourcash/go-sdk/types"
)

type Config struct {
	Datadir          string
	Network          string
	NodeURL          string
	RegistryContract string
	RelayerNetwork   string
	IndexerURL       string
}

var (
	Datadir          = "DATADIR"
	Network          = "NETWORK"
	NodeURL          = "NODE_URL"
	RegistryContract = "REGISTRY_CONTRACT"
	RelayerNetwork   = "RELAYER_NETWORK"
	IndexerURL       = "INDEXER_URL"

	defaultNetwork = types.NetworkTest

	defaultNodeURLs = map[string]string{
		types.NetworkTest:    "https://rpc.testnet.near.org",
		types.NetworkProd:    "https://rpc.mainnet.near.org",
		types.NetworkStaging: "https://rpc.testnet.near.org",
		types.NetworkLocal:   "http://localhost:3030",
	}
	defaultRegistries = map[string]string{
		types.NetworkTest:    "registry.hideyourcash.testnet",
		types.NetworkProd:    "registry.hideyourcash.near",
		types.NetworkStaging: "registry.hideyourcash.testnet",
		types.NetworkLocal:   "registry.test.near",
	}
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("HYC")
	viper.AutomaticEnv()

	viper.SetDefault(Datadir, defaultDatadir())
	viper.SetDefault(Network, defaultNetwork)

	network := viper.GetString(Network)
	viper.SetDefault(NodeURL, defaultNodeURLs[network])
	viper.SetDefault(RegistryContract, defaultRegistries[network])
	viper.SetDefault(RelayerNetwork, network)

	if err := initDatadir(); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	cfg := &Config{
		Datadir:          viper.GetString(Datadir),
		Network:          network,
		NodeURL:          viper.GetString(NodeURL),
		RegistryContract: viper.GetString(RegistryContract),
		RelayerNetwork:   viper.GetString(RelayerNetwork),
		IndexerURL:       viper.GetString(IndexerURL),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Network {
	case types.NetworkTest, types.NetworkProd, types.NetworkStaging, types.NetworkLocal:
	default:
		return fmt.Errorf("unknown network '%s'", c.Network)
	}
	if len(c.NodeURL) <= 0 {
		return fmt.Errorf("missing node url")
	}
	if len(c.RegistryContract) <= 0 {
		return fmt.Errorf("missing registry contract")
	}
	return nil
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hyc"
	}
	return filepath.Join(home, ".hyc")
}

func initDatadir() error {
	datadir := viper.GetString(Datadir)
	if _, err := os.Stat(datadir); os.IsNotExist(err) {
		return os.MkdirAll(datadir, os.ModeDir|0755)
	}
	return nil
}
