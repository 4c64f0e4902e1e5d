package vanitygen

import (
	"bytes"
	"context"
	"math/big"
	"strings"

	"VanityTools/internal/process"
	"VanityTools/internal/record"
)

type runResult struct {
	exitCode int
	stdout   string
	stderr   string
}

// runToCompletion runs the tool once with both output streams captured.
// Cancelling ctx stops the tool and returns ctx.Err().
func (c *Client) runToCompletion(ctx context.Context, cfg Config, flags []string) (runResult, error) {
	var stdout, stderr bytes.Buffer
	h, err := process.Spawn(cfg.Executable, flags, process.Attr{
		Dir:    cfg.WorkDir,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return runResult{}, err
	}
	code, err := h.Wait(ctx)
	if err != nil {
		_ = h.Stop(cfg.StopGrace)
		return runResult{}, err
	}
	return runResult{exitCode: code, stdout: stdout.String(), stderr: stderr.String()}, nil
}

// Valid asks the tool, in simulate mode, whether p is a searchable pattern
// for the current network. Only the exit status matters.
func (c *Client) Valid(ctx context.Context, p Pattern, opt Options) (bool, error) {
	cfg := c.Config()
	opt.Simulate = true
	flags, err := BuildFlags([]Pattern{p}, opt, cfg.Network)
	if err != nil {
		return false, err
	}
	res, err := c.runToCompletion(ctx, cfg, flags)
	if err != nil {
		return false, err
	}
	return res.exitCode == 0, nil
}

// Difficulty returns the tool's estimate of how many keys must be tried to
// find a match for p.
func (c *Client) Difficulty(ctx context.Context, p Pattern, opt Options) (*big.Int, error) {
	cfg := c.Config()
	opt.Simulate = true
	flags, err := BuildFlags([]Pattern{p}, opt, cfg.Network)
	if err != nil {
		return nil, err
	}
	res, err := c.runToCompletion(ctx, cfg, flags)
	if err != nil {
		return nil, err
	}
	if res.exitCode != 0 {
		return nil, &ToolError{Op: "difficulty", ExitCode: res.exitCode, Stderr: res.stderr}
	}
	return parseDifficulty(res.stderr)
}

// parseDifficulty reads the leading digits of the last token of out.
func parseDifficulty(out string) (*big.Int, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, ErrNoDifficulty
	}
	last := fields[len(fields)-1]
	end := 0
	for end < len(last) && last[end] >= '0' && last[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil, ErrNoDifficulty
	}
	n, ok := new(big.Int).SetString(last[:end], 10)
	if !ok {
		return nil, ErrNoDifficulty
	}
	return n, nil
}

// Generate runs one search for p and returns the first result.
func (c *Client) Generate(ctx context.Context, p Pattern, opt Options) (Record, error) {
	cfg := c.Config()
	flags, err := BuildFlags([]Pattern{p}, opt, cfg.Network)
	if err != nil {
		return Record{}, err
	}
	res, err := c.runToCompletion(ctx, cfg, flags)
	if err != nil {
		return Record{}, err
	}
	if res.exitCode != 0 {
		return Record{}, &ToolError{Op: "generate", ExitCode: res.exitCode, Stderr: res.stderr}
	}
	recs := record.Parse(res.stdout)
	if len(recs) == 0 {
		return Record{}, ErrNoRecord
	}
	return recs[0], nil
}

func Valid(ctx context.Context, p Pattern, opt Options) (bool, error) {
	return std.Valid(ctx, p, opt)
}

func Difficulty(ctx context.Context, p Pattern, opt Options) (*big.Int, error) {
	return std.Difficulty(ctx, p, opt)
}

func Generate(ctx context.Context, p Pattern, opt Options) (Record, error) {
	return std.Generate(ctx, p, opt)
}
