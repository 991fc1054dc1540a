package hycsdk

import (
	"fmt"

	"github.com/hideyourcash/go-sdk/client"
	rpcclient "github.com/hideyourcash/go-sdk/client/rpc"
	"github.com/hideyourcash/go-sdk/internal/utils"
	"github.com/hideyourcash/go-sdk/types"
	"github.com/hideyourcash/go-sdk/wallet"
)

var (
	supportedWallets = utils.SupportedType[struct{}]{
		wallet.SingleKeyWallet: struct{}{},
	}
	supportedClients = utils.SupportedType[client.Factory]{
		client.JSONRPCClient: rpcclient.NewClient,
	}
	supportedNetworks = utils.SupportedType[struct{}]{
		types.NetworkTest:    struct{}{},
		types.NetworkProd:    struct{}{},
		types.NetworkStaging: struct{}{},
		types.NetworkLocal:   struct{}{},
	}
)

type InitArgs struct {
	ClientType       string
	WalletType       string
	Network          string
	NodeURL          string
	RegistryContract string
	RelayerNetwork   string
	IndexerURL       string
	Seed             string
	Password         string
}

func (a InitArgs) validate() error {
	if len(a.WalletType) <= 0 {
		return fmt.Errorf("missing wallet type")
	}
	if !supportedWallets.Supports(a.WalletType) {
		return fmt.Errorf(
			"wallet type '%s' not supported, please select one of: %s",
			a.WalletType, supportedWallets,
		)
	}

	if len(a.ClientType) <= 0 {
		return fmt.Errorf("missing client type")
	}
	if !supportedClients.Supports(a.ClientType) {
		return fmt.Errorf(
			"client type '%s' not supported, please select one of: %s",
			a.ClientType, supportedClients,
		)
	}

	if len(a.Network) <= 0 {
		return fmt.Errorf("missing network")
	}
	if !supportedNetworks.Supports(a.Network) {
		return fmt.Errorf(
			"network '%s' not supported, please select one of: %s",
			a.Network, supportedNetworks,
		)
	}

	if len(a.NodeURL) <= 0 {
		return fmt.Errorf("missing node url")
	}
	if len(a.RegistryContract) <= 0 {
		return fmt.Errorf("missing registry contract")
	}
	if len(a.Password) <= 0 {
		return fmt.Errorf("missing password")
	}
	return nil
}
