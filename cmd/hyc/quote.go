package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var quoteCommand = cli.Command{
	Name:  "quote",
	Usage: "Negotiate a relayer fee quote for a ticket and recipient",
	Action: func(ctx *cli.Context) error {
		return quote(ctx)
	},
	Flags: []cli.Flag{&ticketFlag, &toFlag},
}

func quote(ctx *cli.Context) error {
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

	return printJSON(map[string]interface{}{
		"relayer_account":    feeQuote.RelayerAccount,
		"relayer_url":        feeQuote.RelayerURL,
		"network_fee":        feeQuote.NetworkFee,
		"relayer_fee":        feeQuote.RelayerFee,
		"recipient_receives": feeQuote.RecipientReceives,
		"expires_at":         feeQuote.ExpiresAt(),
	})
}
