package rpcclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				JSONRPC string `json:"jsonrpc"`
				Method  string `json:"method"`
				Params  struct {
					RequestType string `json:"request_type"`
					AccountId   string `json:"account_id"`
					MethodName  string `json:"method_name"`
					ArgsBase64  string `json:"args_base64"`
				} `json:"params"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "2.0", req.JSONRPC)
			require.Equal(t, "query", req.Method)
			require.Equal(t, "call_function", req.Params.RequestType)
			require.Equal(t, "pool.near", req.Params.AccountId)
			require.Equal(t, "view_was_nullifier_spent", req.Params.MethodName)

			args, err := base64.StdEncoding.DecodeString(req.Params.ArgsBase64)
			require.NoError(t, err)
			require.JSONEq(t, `{"nullifier":"deadbeef"}`, string(args))

			// function results come back as an array of byte values
			result := []int{'t', 'r', 'u', 'e'}
			buf, _ := json.Marshal(map[string]interface{}{
				"result": map[string]interface{}{"result": result},
			})
			w.Write(buf) //nolint:errcheck
		},
	))
	defer server.Close()

	node, err := NewClient(server.URL)
	require.NoError(t, err)
	defer node.Close()

	raw, err := node.CallView(
		context.Background(), "pool.near", "view_was_nullifier_spent",
		map[string]interface{}{"nullifier": "deadbeef"},
	)
	require.NoError(t, err)

	var spent bool
	require.NoError(t, json.Unmarshal(raw, &spent))
	require.True(t, spent)
}

func TestAccountBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"result":{"amount":"250000000000000000000000"}}`)
		},
	))
	defer server.Close()

	node, err := NewClient(server.URL)
	require.NoError(t, err)
	defer node.Close()

	balance, err := node.AccountBalance(context.Background(), "alice.near")
	require.NoError(t, err)
	require.Equal(t, "250000000000000000000000", balance)
}

func TestSubmitTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Method string   `json:"method"`
				Params []string `json:"params"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "broadcast_tx_commit", req.Method)
			require.Len(t, req.Params, 1)

			fmt.Fprint(w, `{"result":{"transaction":{"hash":"8hEkU4"}}}`)
		},
	))
	defer server.Close()

	node, err := NewClient(server.URL)
	require.NoError(t, err)
	defer node.Close()

	txid, err := node.SubmitTransaction(context.Background(), []byte("signed"))
	require.NoError(t, err)
	require.Equal(t, "8hEkU4", txid)
}

func TestRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"error":{"name":"HANDLER_ERROR","message":"contract not found"}}`)
		},
	))
	defer server.Close()

	node, err := NewClient(server.URL)
	require.NoError(t, err)
	defer node.Close()

	_, err = node.CallView(
		context.Background(), "missing.near", "view_all_currencies",
		map[string]interface{}{},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "contract not found")
}

func TestNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		},
	))
	defer server.Close()

	node, err := NewClient(server.URL)
	require.NoError(t, err)
	defer node.Close()

	_, err = node.AccountBalance(context.Background(), "alice.near")
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestMissingNodeURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
}
