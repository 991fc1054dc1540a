package main

import (
	"github.com/urfave/cli/v2"

	rpcclient "github.com/hideyourcash/go-sdk/client/rpc"
	"github.com/hideyourcash/go-sdk/views"
)

var relayersCommand = cli.Command{
	Name:  "relayers",
	Usage: "Pick a relayer from the directory of the configured network",
	Action: func(ctx *cli.Context) error {
		return relayers(ctx)
	},
}

func relayers(_ *cli.Context) error {
	data, err := hycSdkClient.GetConfigData(cntx)
	if err != nil {
		return err
	}

	node, err := rpcclient.NewClient(data.NodeURL)
	if err != nil {
		return err
	}
	defer node.Close()

	candidates, err := views.NewViews(node, data.RegistryContract).
		RandomRelayer(cntx, data.RelayerNetwork)
	if err != nil {
		return err
	}

	out := make([]map[string]interface{}, 0, len(candidates))
	for _, r := range candidates {
		out = append(out, map[string]interface{}{
			"url":         r.URL,
			"account":     r.Account,
			"fee_percent": r.FeePercent,
		})
	}

	return printJSON(out)
}
