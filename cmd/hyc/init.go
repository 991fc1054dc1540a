package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	hycsdk "github.com/hideyourcash/go-sdk"
	"github.com/hideyourcash/go-sdk/client"
	"github.com/hideyourcash/go-sdk/internal/config"
	"github.com/hideyourcash/go-sdk/wallet"
)

var initCommand = cli.Command{
	Name:  "init",
	Usage: "Initialize the wallet with an encryption password, and connect it to a chain node",
	Action: func(ctx *cli.Context) error {
		return initSdk(ctx)
	},
	Flags: []cli.Flag{
		&passwordFlag, &seedFlag, &networkFlag, &nodeURLFlag,
		&registryFlag, &relayerNetworkFlag, &indexerURLFlag,
	},
}

func initSdk(ctx *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	net := strings.ToLower(ctx.String("network"))
	nodeURL := ctx.String("node-url")
	registry := ctx.String("registry")
	relayerNet := ctx.String("relayer-network")
	if len(nodeURL) <= 0 {
		nodeURL = cfg.NodeURL
	}
	if len(registry) <= 0 {
		registry = cfg.RegistryContract
	}
	if len(relayerNet) <= 0 {
		relayerNet = net
	}

	password := ctx.String("password")
	if len(password) <= 0 {
		fmt.Print("choose a wallet password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // new line
		if err != nil {
			return err
		}
		password = string(raw)
	}

	if err := hycSdkClient.Init(cntx, hycsdk.InitArgs{
		ClientType:       client.JSONRPCClient,
		WalletType:       wallet.SingleKeyWallet,
		Network:          net,
		NodeURL:          nodeURL,
		RegistryContract: registry,
		RelayerNetwork:   relayerNet,
		IndexerURL:       ctx.String("indexer-url"),
		Seed:             ctx.String("seed"),
		Password:         password,
	}); err != nil {
		return err
	}

	fmt.Println("wallet initialized")
	return nil
}
