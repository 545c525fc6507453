package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// CLIFetcher implements Fetcher by running qtum-cli.
type CLIFetcher struct {
	Path string   // qtum-cli binary
	Args []string // extra flags placed before the command, e.g. -datadir=...
}

// NewCLIFetcher creates a fetcher for the qtum-cli binary at path.
func NewCLIFetcher(path, datadir string) *CLIFetcher {
	f := &CLIFetcher{Path: path}
	if datadir != "" {
		f.Args = append(f.Args, "-datadir="+datadir)
	}
	return f
}

func (f *CLIFetcher) Name() string { return "qtum-cli" }

func (f *CLIFetcher) FetchWalletInfo(ctx context.Context) (*WalletInfo, error) {
	var info WalletInfo
	if err := f.call(ctx, "getwalletinfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (f *CLIFetcher) FetchStakingInfo(ctx context.Context) (*StakingInfo, error) {
	var info StakingInfo
	if err := f.call(ctx, "getstakinginfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (f *CLIFetcher) call(ctx context.Context, method string, out any) error {
	args := append(append([]string{}, f.Args...), method)
	cmd := exec.CommandContext(ctx, f.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return fmt.Errorf("%s %s: %w", f.Path, method, err)
		}
		return fmt.Errorf("%s %s: %w: %s", f.Path, method, err, detail)
	}
	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return fmt.Errorf("decode %s output: %w", method, err)
	}
	return nil
}
