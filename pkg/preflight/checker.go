// Package preflight verifies the parent chain before a deployment is submitted.
package preflight

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/barekit/orbitai/pkg/orbit"
)

// DefaultTimeout is the default timeout for RPC calls.
const DefaultTimeout = 10 * time.Second

// CheckName identifies a specific pre-flight check.
type CheckName string

const (
	CheckOwnerAddress    CheckName = "owner_address"
	CheckParentReachable CheckName = "parent_reachable"
	CheckChainIDMatch    CheckName = "chain_id_match"
)

// CheckResult represents the result of a single pre-flight check.
type CheckResult struct {
	Name    CheckName      `json:"name"`
	Passed  bool           `json:"passed"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Report contains the results of all checks that ran.
type Report struct {
	OK          bool              `json:"ok"`
	ParentChain orbit.ParentChain `json:"parent_chain"`
	Skipped     bool              `json:"skipped,omitempty"`
	Checks      []CheckResult     `json:"checks"`
}

// Failures lists the messages of the checks that did not pass.
func (r *Report) Failures() []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c.Message)
		}
	}
	return out
}

// Checker runs checks against per-parent-chain RPC endpoints.
type Checker struct {
	rpcs    map[orbit.ParentChain]string
	timeout time.Duration
}

// NewChecker creates a checker. Parent chains without an entry in rpcs are skipped.
func NewChecker(rpcs map[orbit.ParentChain]string) *Checker {
	m := make(map[orbit.ParentChain]string, len(rpcs))
	for k, v := range rpcs {
		if v != "" {
			m[k] = v
		}
	}
	return &Checker{rpcs: m, timeout: DefaultTimeout}
}

// WithTimeout sets a custom timeout for RPC calls.
func (c *Checker) WithTimeout(timeout time.Duration) *Checker {
	c.timeout = timeout
	return c
}

// Covers reports whether an RPC endpoint is configured for p.
func (c *Checker) Covers(p orbit.ParentChain) bool {
	_, ok := c.rpcs[p]
	return ok
}

// Run checks cfg's owner address and its parent chain RPC.
func (c *Checker) Run(ctx context.Context, cfg *orbit.Config) (*Report, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid request: config is required")
	}

	report := &Report{OK: true, ParentChain: cfg.ParentChain}

	owner := c.checkOwner(cfg.OwnerAddress)
	report.Checks = append(report.Checks, owner)
	if !owner.Passed {
		report.OK = false
	}

	rpcURL, ok := c.rpcs[cfg.ParentChain]
	if !ok {
		report.Skipped = true
		return report, nil
	}

	rpcCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, reachable := c.checkReachable(rpcCtx, rpcURL)
	report.Checks = append(report.Checks, reachable)
	if !reachable.Passed {
		report.OK = false
		return report, nil
	}
	defer client.Close()

	expected := orbit.ParentChainDetails(cfg.ParentChain).ChainID
	match := c.checkChainIDMatch(rpcCtx, client, expected)
	report.Checks = append(report.Checks, match)
	if !match.Passed {
		report.OK = false
	}
	return report, nil
}

func (c *Checker) checkOwner(addr string) CheckResult {
	result := CheckResult{Name: CheckOwnerAddress}
	if !common.IsHexAddress(addr) || common.HexToAddress(addr) == (common.Address{}) {
		result.Message = "Owner address must be a non-zero Ethereum address"
		return result
	}
	result.Passed = true
	result.Message = "Owner address is valid"
	return result
}

func (c *Checker) checkReachable(ctx context.Context, rpcURL string) (*ethclient.Client, CheckResult) {
	result := CheckResult{Name: CheckParentReachable}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to connect to parent chain RPC: %v", err)
		result.Details = map[string]any{"error": err.Error()}
		return nil, result
	}

	if _, err := client.BlockNumber(ctx); err != nil {
		client.Close()
		result.Message = fmt.Sprintf("Parent chain RPC connection failed: %v", err)
		result.Details = map[string]any{"error": err.Error()}
		return nil, result
	}

	result.Passed = true
	result.Message = "Connected to parent chain RPC"
	return client, result
}

func (c *Checker) checkChainIDMatch(ctx context.Context, client *ethclient.Client, expected uint64) CheckResult {
	result := CheckResult{Name: CheckChainIDMatch}

	actual, err := client.ChainID(ctx)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to get chain ID: %v", err)
		result.Details = map[string]any{"error": err.Error()}
		return result
	}

	if actual.Cmp(new(big.Int).SetUint64(expected)) != 0 {
		result.Message = fmt.Sprintf("Chain ID mismatch: expected %d, got %d", expected, actual.Uint64())
		result.Details = map[string]any{
			"expected": expected,
			"actual":   actual.Uint64(),
		}
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Chain ID %d confirmed", expected)
	return result
}
