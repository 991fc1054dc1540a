package main

import (
	"github.com/urfave/cli/v2"
)

var allowlistCommand = cli.Command{
	Name:  "allowlist",
	Usage: "Apply the wallet account to the registry allowlist",
	Action: func(ctx *cli.Context) error {
		return applyAllowlist(ctx)
	},
	Flags: []cli.Flag{&passwordFlag},
}

func applyAllowlist(ctx *cli.Context) error {
	password, err := readPassword(ctx)
	if err != nil {
		return err
	}
	if err := hycSdkClient.Unlock(cntx, string(password)); err != nil {
		return err
	}
	defer hycSdkClient.Lock(cntx, string(password)) //nolint:errcheck

	txid, err := hycSdkClient.ApplyAllowlist(cntx)
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{
		"txid": txid,
	})
}
