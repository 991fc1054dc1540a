package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hideyourcash/go-sdk/types"
)

func TestServiceFeeQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/fee", r.URL.Path)

			var req struct {
				ReceiverAccountId string `json:"receiver_account_id"`
				InstanceContract  string `json:"instance_contract"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "alice.near", req.ReceiverAccountId)
			require.Equal(t, testPool, req.InstanceContract)

			fmt.Fprint(w, `{
				"token": "quote-token-1",
				"human_network_fee": "0.05",
				"formatted_token_fee": "0.1",
				"formatted_user_will_receive": "9.85",
				"valid_fee_for_ms": 300000
			}`)
		},
	))
	defer server.Close()

	service := NewService()
	quote, err := service.FeeQuote(
		context.Background(),
		types.RelayerData{URL: server.URL, Account: "relayer.near"},
		"alice.near", testPool,
	)
	require.NoError(t, err)
	require.Equal(t, "quote-token-1", quote.Token)
	require.Equal(t, "0.1", quote.RelayerFee)
	require.Equal(t, "9.85", quote.RecipientReceives)
	require.Equal(t, int64(300000), quote.ValidForMs)
}

func TestServiceFeeQuoteInvalidRecipient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid receiver address", http.StatusBadRequest)
		},
	))
	defer server.Close()

	service := NewService()
	_, err := service.FeeQuote(
		context.Background(),
		types.RelayerData{URL: server.URL},
		"not-an-account", testPool,
	)
	require.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestServiceFeeQuoteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		},
	))
	defer server.Close()

	service := NewService()
	_, err := service.FeeQuote(
		context.Background(), types.RelayerData{URL: server.URL},
		"alice.near", testPool,
	)
	require.ErrorIs(t, err, ErrRelayerUnreachable)
}

func TestServiceFeeQuoteIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"token": ""}`)
		},
	))
	defer server.Close()

	service := NewService()
	_, err := service.FeeQuote(
		context.Background(), types.RelayerData{URL: server.URL},
		"alice.near", testPool,
	)
	require.ErrorIs(t, err, ErrRelayerUnreachable)
}

func TestServiceRelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/relay", r.URL.Path)

			var req struct {
				Token      string           `json:"token"`
				PublicArgs types.PublicArgs `json:"public_args"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "quote-token-1", req.Token)
			require.Equal(t, "alice.near", req.PublicArgs.Recipient)

			fmt.Fprint(w, `{"transaction":{"hash":"4YqTxv"}}`)
		},
	))
	defer server.Close()

	service := NewService()
	txid, err := service.Relay(
		context.Background(), server.URL, "quote-token-1",
		types.ProofPayload{
			PublicArgs: types.PublicArgs{Recipient: "alice.near"},
			Proof:      []byte("proof-bytes"),
		},
	)
	require.NoError(t, err)
	require.Equal(t, "4YqTxv", txid)
}

func TestServiceRelayRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quote expired", http.StatusForbidden)
		},
	))
	defer server.Close()

	service := NewService()
	_, err := service.Relay(
		context.Background(), server.URL, "stale-token",
		types.ProofPayload{},
	)
	require.ErrorIs(t, err, ErrRelayerUnreachable)
}
