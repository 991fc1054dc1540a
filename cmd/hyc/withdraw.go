package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var withdrawCommand = cli.Command{
	Name:  "withdraw",
	Usage: "Withdraw a ticket to a recipient through a relayer",
	Action: func(ctx *cli.Context) error {
		return withdraw(ctx)
	},
	Flags: []cli.Flag{&ticketFlag, &toFlag},
}

func withdraw(ctx *cli.Context) error {
	if _, err := hycSdkClient.ValidateTicket(cntx, ctx.String("ticket")); err != nil {
		return err
	}

	feeQuote, err := hycSdkClient.SetRecipient(cntx, ctx.String("to"))
	if err != nil {
		return err
	}
	if feeQuote == nil {
		return fmt.Errorf("recipient address too short to negotiate a quote")
	}

	fmt.Printf(
		"relayer %s takes %s, recipient receives %s\n",
		feeQuote.RelayerAccount, feeQuote.RelayerFee, feeQuote.RecipientReceives,
	)

	record, err := hycSdkClient.Withdraw(cntx)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("a withdrawal is already in progress")
	}

	return printJSON(map[string]interface{}{
		"txid":        record.Txid,
		"recipient":   record.Recipient,
		"relayer":     record.RelayerAccount,
		"relayer_fee": record.RelayerFee,
	})
}
