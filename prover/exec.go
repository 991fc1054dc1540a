package prover

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hideyourcash/go-sdk/types"
)

// commandProver delegates proof generation to an external prover binary.
// The request is written to stdin as JSON; the binary streams progress
// lines of the form "progress <pct>" followed by a final JSON payload on
// its last line.
type commandProver struct {
	path string
	args []string
}

func NewCommand(path string, args ...string) Prover {
	return &commandProver{path: path, args: args}
}

type commandRequest struct {
	Secret         string `json:"secret"`
	Nullifier      string `json:"nullifier"`
	PoolContract   string `json:"pool_contract"`
	Recipient      string `json:"recipient"`
	RelayerAccount string `json:"relayer,omitempty"`
	Fee            string `json:"fee"`
	Refund         string `json:"refund,omitempty"`
}

func (p *commandProver) Prove(
	ctx context.Context, req Request, progress ProgressFunc,
) (*types.ProofPayload, error) {
	if progress == nil {
		progress = func(float64) {}
	}

	input, err := json.Marshal(commandRequest{
		Secret:         hex.EncodeToString(req.Note.Secret),
		Nullifier:      hex.EncodeToString(req.Note.Nullifier),
		PoolContract:   req.Note.PoolContract,
		Recipient:      req.Recipient,
		RelayerAccount: req.RelayerAccount,
		Fee:            req.Fee,
		Refund:         req.Refund,
	})
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.path, p.args...)
	cmd.Stdin = bytes.NewReader(input)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start prover %s: %s", p.path, err)
	}

	var lastLine string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if pct, ok := parseProgressLine(line); ok {
			progress(pct)
			continue
		}
		lastLine = line
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("prover exited with error: %s", err)
	}
	if len(lastLine) == 0 {
		return nil, fmt.Errorf("prover produced no payload")
	}

	payload := &types.ProofPayload{}
	if err := json.Unmarshal([]byte(lastLine), payload); err != nil {
		return nil, fmt.Errorf("failed to parse prover payload: %s", err)
	}

	progress(100)
	return payload, nil
}

func parseProgressLine(line string) (float64, bool) {
	rest, found := strings.CutPrefix(line, "progress ")
	if !found {
		return 0, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}
