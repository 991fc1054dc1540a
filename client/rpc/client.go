package rpcclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hideyourcash/go-sdk/client"
)

const requestTimeout = 15 * time.Second

type rpcClient struct {
	nodeURL    string
	httpClient *http.Client
}

// NewClient returns a NodeClient speaking JSON-RPC 2.0 over HTTP to a
// ledger node.
func NewClient(nodeURL string) (client.NodeClient, error) {
	if len(nodeURL) <= 0 {
		return nil, fmt.Errorf("missing node url")
	}
	return &rpcClient{
		nodeURL:    nodeURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.Data)
	}
	return e.Message
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *rpcClient) CallView(
	ctx context.Context, contract, method string, args interface{},
) (json.RawMessage, error) {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	result, err := c.do(ctx, "query", map[string]interface{}{
		"request_type": "call_function",
		"finality":     "final",
		"account_id":   contract,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(argsBytes),
	})
	if err != nil {
		return nil, err
	}

	// the node returns the function result as an array of byte values
	var callResult struct {
		Raw  []int    `json:"result"`
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(result, &callResult); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(callResult.Raw))
	for _, b := range callResult.Raw {
		buf = append(buf, byte(b))
	}
	return json.RawMessage(buf), nil
}

func (c *rpcClient) AccountBalance(
	ctx context.Context, accountId string,
) (string, error) {
	result, err := c.do(ctx, "query", map[string]interface{}{
		"request_type": "view_account",
		"finality":     "final",
		"account_id":   accountId,
	})
	if err != nil {
		return "", err
	}

	var account struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(result, &account); err != nil {
		return "", err
	}
	return account.Amount, nil
}

func (c *rpcClient) SubmitTransaction(
	ctx context.Context, signedTx []byte,
) (string, error) {
	result, err := c.do(
		ctx, "broadcast_tx_commit",
		[]string{base64.StdEncoding.EncodeToString(signedTx)},
	)
	if err != nil {
		return "", err
	}

	var outcome struct {
		Transaction struct {
			Hash string `json:"hash"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(result, &outcome); err != nil {
		return "", err
	}
	return outcome.Transaction.Hash, nil
}

func (c *rpcClient) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *rpcClient) do(
	ctx context.Context, method string, params interface{},
) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "go-sdk",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.nodeURL, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("node returned status %d: %s", resp.StatusCode, string(respBody))
	}

	rpcResp := rpcResponse{}
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, err
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}
