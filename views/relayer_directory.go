package views

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hideyourcash/go-sdk/types"
)

var ErrNoRelayerAvailable = fmt.Errorf("no relayer available")

// relayerDirectory queries the per-environment relayer directory service.
type relayerDirectory struct {
	baseURLs   map[string]string
	httpClient *http.Client
}

func newRelayerDirectory() *relayerDirectory {
	return &relayerDirectory{
		baseURLs: map[string]string{
			types.NetworkTest:    "https://dev-relayer.hideyourcash.workers.dev",
			types.NetworkProd:    "https://prod-relayer.hideyourcash.workers.dev",
			types.NetworkStaging: "https://staging-relayer.hideyourcash.workers.dev",
			types.NetworkLocal:   "http://localhost:8787",
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RandomRelayer returns at least one relayer candidate with its fee-percent
// metadata for the given network environment.
func (v *Views) RandomRelayer(
	ctx context.Context, network string,
) ([]types.RelayerData, error) {
	baseURL, ok := v.directory.baseURLs[network]
	if !ok {
		return nil, fmt.Errorf("unknown relayer network '%s'", network)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, baseURL+"/data", nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.directory.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRelayerAvailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: directory returned status %d", ErrNoRelayerAvailable, resp.StatusCode)
	}

	var payload struct {
		Data struct {
			AccountId  string      `json:"account_id"`
			FeePercent json.Number `json:"feePercent"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data.AccountId) <= 0 {
		return nil, ErrNoRelayerAvailable
	}

	return []types.RelayerData{
		{
			URL:        baseURL,
			Account:    payload.Data.AccountId,
			FeePercent: payload.Data.FeePercent.String(),
		},
	}, nil
}
