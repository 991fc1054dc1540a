package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	hycsdk "github.com/hideyourcash/go-sdk"
)

var inspectCommand = cli.Command{
	Name:  "inspect",
	Usage: "Validate a withdrawal ticket and show its anonymity score",
	Action: func(ctx *cli.Context) error {
		return inspect(ctx)
	},
	Flags: []cli.Flag{&ticketFlag},
}

func inspect(ctx *cli.Context) error {
	note, err := hycSdkClient.ValidateTicket(cntx, ctx.String("ticket"))
	if err != nil {
		if errors.Is(err, hycsdk.ErrNullifierSpent) {
			return printJSON(map[string]interface{}{
				"valid": false,
				"spent": true,
			})
		}
		return err
	}

	out := map[string]interface{}{
		"valid":          true,
		"spent":          false,
		"pool_contract":  note.PoolContract,
		"nullifier_hash": note.NullifierHashHex(),
		"commitment":     note.CommitmentHex(),
	}

	if score, tier, err := hycSdkClient.AnonymityScore(cntx); err == nil {
		out["anonymity_score"] = score
		out["anonymity_tier"] = tier
	}

	return printJSON(out)
}
