package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hideyourcash/go-sdk/types"
)

// Service speaks the relayer's HTTP API: fee negotiation and relayed
// submission.
type Service struct {
	httpClient *http.Client
}

func NewService() *Service {
	// submission waits for transaction inclusion, so the cap is generous;
	// callers bound individual quote requests with their context.
	return &Service{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type feeRequest struct {
	ReceiverAccountId string `json:"receiver_account_id"`
	InstanceContract  string `json:"instance_contract"`
}

func (s *Service) FeeQuote(
	ctx context.Context, relayer types.RelayerData,
	recipient, poolContract string,
) (*types.FeeQuote, error) {
	body, err := json.Marshal(feeRequest{
		ReceiverAccountId: recipient,
		InstanceContract:  poolContract,
	})
	if err != nil {
		return nil, err
	}

	respBody, status, err := s.post(ctx, relayer.URL+"/fee", body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s", ErrQuoteTimeout, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrRelayerUnreachable, err)
	}

	if status != http.StatusOK {
		if status >= 400 && status < 500 &&
			strings.Contains(strings.ToLower(string(respBody)), "address") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRecipient, string(respBody))
		}
		return nil, fmt.Errorf("%w: relayer returned status %d: %s", ErrRelayerUnreachable, status, string(respBody))
	}

	quote := &types.FeeQuote{}
	if err := json.Unmarshal(respBody, quote); err != nil {
		return nil, fmt.Errorf("%w: malformed fee response: %s", ErrRelayerUnreachable, err)
	}
	if len(quote.Token) <= 0 || quote.ValidForMs <= 0 {
		return nil, fmt.Errorf("%w: incomplete fee response", ErrRelayerUnreachable)
	}
	return quote, nil
}

// Relay submits a withdrawal payload through the relayer. The relayer signs
// and broadcasts the transaction on the user's behalf, improving recipient
// privacy.
func (s *Service) Relay(
	ctx context.Context, relayerURL, quoteToken string,
	payload types.ProofPayload,
) (string, error) {
	body, err := json.Marshal(struct {
		Token      string           `json:"token"`
		PublicArgs types.PublicArgs `json:"public_args"`
		Proof      []byte           `json:"proof"`
	}{
		Token:      quoteToken,
		PublicArgs: payload.PublicArgs,
		Proof:      payload.Proof,
	})
	if err != nil {
		return "", err
	}

	respBody, status, err := s.post(ctx, relayerURL+"/relay", body)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRelayerUnreachable, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: relayer returned status %d: %s", ErrRelayerUnreachable, status, string(respBody))
	}

	var result struct {
		Transaction struct {
			Hash string `json:"hash"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	return result.Transaction.Hash, nil
}

func (s *Service) post(
	ctx context.Context, url string, body []byte,
) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(body),
	)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return respBody, resp.StatusCode, nil
}
