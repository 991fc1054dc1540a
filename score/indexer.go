package score

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type indexerSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewIndexerSource returns a PopulationSource backed by the pool indexer's
// HTTP stats endpoint.
func NewIndexerSource(baseURL string) PopulationSource {
	return &indexerSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *indexerSource) PoolStats(
	ctx context.Context, poolContract string,
) (PoolStats, error) {
	url := fmt.Sprintf("%s/pool/%s/stats", s.baseURL, poolContract)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PoolStats{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return PoolStats{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PoolStats{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return PoolStats{}, fmt.Errorf("indexer returned status %d: %s", resp.StatusCode, string(body))
	}

	stats := PoolStats{}
	if err := json.Unmarshal(body, &stats); err != nil {
		return PoolStats{}, err
	}
	return stats, nil
}
