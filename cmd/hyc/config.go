package main

import (
	"github.com/urfave/cli/v2"
)

var configCommand = cli.Command{
	Name:  "config",
	Usage: "Shows configuration of the wallet",
	Action: func(ctx *cli.Context) error {
		return printConfig(ctx)
	},
}

func printConfig(_ *cli.Context) error {
	data, err := hycSdkClient.GetConfigData(cntx)
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{
		"network":           data.Network,
		"node_url":          data.NodeURL,
		"registry_contract": data.RegistryContract,
		"relayer_network":   data.RelayerNetwork,
		"indexer_url":       data.IndexerURL,
		"wallet_type":       data.WalletType,
		"datadir":           data.Datadir,
	})
}
