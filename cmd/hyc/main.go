package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	hycsdk "github.com/hideyourcash/go-sdk"
	"github.com/hideyourcash/go-sdk/internal/config"
	"github.com/hideyourcash/go-sdk/prover"
	"github.com/hideyourcash/go-sdk/store"
	"github.com/hideyourcash/go-sdk/types"
)

var version = "alpha"

var (
	cntx         = context.Background()
	hycSdkClient hycsdk.HycClient
)

var (
	datadirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Specify the data directory",
		Required: false,
		EnvVars:  []string{"HYC_DATADIR"},
	}
	passwordFlag = cli.StringFlag{
		Name:     "password",
		Usage:    "password to unlock the wallet",
		Required: false,
		Hidden:   true,
	}
	seedFlag = cli.StringFlag{
		Name:  "seed",
		Usage: "optional, private key to encrypt",
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "network to use (test, prod, staging, local)",
		Value: types.NetworkTest,
	}
	nodeURLFlag = cli.StringFlag{
		Name:  "node-url",
		Usage: "the url of the chain node to connect to",
	}
	registryFlag = cli.StringFlag{
		Name:  "registry",
		Usage: "the registry contract account",
	}
	relayerNetworkFlag = cli.StringFlag{
		Name:  "relayer-network",
		Usage: "relayer directory network, defaults to the chain network",
	}
	indexerURLFlag = cli.StringFlag{
		Name:  "indexer-url",
		Usage: "optional, the url of the indexer used for anonymity scoring",
	}
	ticketFlag = cli.StringFlag{
		Name:     "ticket",
		Usage:    "the withdrawal ticket",
		Required: true,
	}
	toFlag = cli.StringFlag{
		Name:     "to",
		Usage:    "address of the recipient",
		Required: true,
	}
	tokenContractFlag = cli.StringFlag{
		Name:  "token",
		Usage: "token contract to query, defaults to the native token",
	}
	proverCmdFlag = &cli.StringFlag{
		Name:    "prover-cmd",
		Usage:   "path of the external prover binary used to generate withdrawal proofs",
		EnvVars: []string{"HYC_PROVER_CMD"},
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "HYC CLI"
	app.Usage = "hideyour.cash withdrawal command line interface"
	app.Commands = append(
		app.Commands,
		&allowlistCommand,
		&balanceCommand,
		&configCommand,
		&historyCommand,
		&initCommand,
		&inspectCommand,
		&quoteCommand,
		&relayersCommand,
		&withdrawCommand,
	)
	app.Flags = []cli.Flag{
		datadirFlag,
		proverCmdFlag,
	}

	app.Before = func(ctx *cli.Context) error {
		sdk, err := getHycSdkClient(ctx)
		if err != nil {
			return fmt.Errorf("error while initializing hyc sdk client: %v", err)
		}

		hycSdkClient = sdk

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

func getHycSdkClient(ctx *cli.Context) (hycsdk.HycClient, error) {
	dataDir := ctx.String("datadir")
	if len(dataDir) == 0 {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		dataDir = cfg.Datadir
	}

	configStore, err := store.NewConfigStore(store.Config{
		ConfigStoreType: types.FileStore,
		BaseDir:         dataDir,
	})
	if err != nil {
		return nil, err
	}

	configData, err := configStore.GetData(context.Background())
	if err != nil {
		return nil, err
	}

	opts := []hycsdk.Option{}
	if proverCmd := ctx.String("prover-cmd"); len(proverCmd) > 0 {
		opts = append(opts, hycsdk.WithProver(prover.NewCommand(proverCmd)))
	}

	if configData == nil {
		return hycsdk.New(configStore, opts...)
	}
	return hycsdk.Load(configStore, opts...)
}

func readPassword(ctx *cli.Context) ([]byte, error) {
	password := []byte(ctx.String("password"))

	if len(password) == 0 {
		fmt.Print("unlock your wallet with password: ")
		var err error
		password, err = term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // new line
		if err != nil {
			return nil, err
		}
	}

	return password, nil
}

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}

	fmt.Println(string(jsonBytes))
	return nil
}
