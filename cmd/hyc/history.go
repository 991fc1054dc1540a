package main

import (
	"github.com/urfave/cli/v2"
)

var historyCommand = cli.Command{
	Name:  "history",
	Usage: "List the withdrawals submitted from this device",
	Action: func(ctx *cli.Context) error {
		return history(ctx)
	},
}

func history(_ *cli.Context) error {
	withdrawals, err := hycSdkClient.GetWithdrawalHistory(cntx)
	if err != nil {
		return err
	}

	out := make([]map[string]interface{}, 0, len(withdrawals))
	for _, w := range withdrawals {
		out = append(out, map[string]interface{}{
			"txid":          w.Txid,
			"pool_contract": w.PoolContract,
			"recipient":     w.Recipient,
			"relayer":       w.RelayerAccount,
			"relayer_fee":   w.RelayerFee,
			"created_at":    w.CreatedAt,
		})
	}

	return printJSON(out)
}
