package main

import (
	"github.com/urfave/cli/v2"
)

var balanceCommand = cli.Command{
	Name:  "balance",
	Usage: "Print the balance of the wallet account",
	Action: func(ctx *cli.Context) error {
		return balance(ctx)
	},
	Flags: []cli.Flag{&tokenContractFlag, &passwordFlag},
}

func balance(ctx *cli.Context) error {
	password, err := readPassword(ctx)
	if err != nil {
		return err
	}
	if err := hycSdkClient.Unlock(cntx, string(password)); err != nil {
		return err
	}
	defer hycSdkClient.Lock(cntx, string(password)) //nolint:errcheck

	amount, err := hycSdkClient.Balance(cntx, ctx.String("token"))
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{
		"amount": amount,
	})
}
