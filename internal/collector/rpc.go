package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RPCFetcher implements Fetcher against the daemon's JSON-RPC endpoint.
type RPCFetcher struct {
	URL      string
	User     string
	Password string
	Client   *http.Client
}

// NewRPCFetcher creates a new fetcher with optional proxy support.
func NewRPCFetcher(rpcURL, user, password, proxyURL string) *RPCFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RPCFetcher{
		URL:      rpcURL,
		User:     user,
		Password: password,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RPCFetcher) Name() string { return "rpc" }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *RPCFetcher) FetchWalletInfo(ctx context.Context) (*WalletInfo, error) {
	var info WalletInfo
	if err := f.call(ctx, "getwalletinfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (f *RPCFetcher) FetchStakingInfo(ctx context.Context) (*StakingInfo, error) {
	var info StakingInfo
	if err := f.call(ctx, "getstakinginfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (f *RPCFetcher) call(ctx context.Context, method string, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "1.0", ID: "stakesentinel", Method: method, Params: []any{}})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	if f.User != "" {
		req.SetBasicAuth(f.User, f.Password)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", method, err)
	}
	// qtumd answers RPC-level errors with HTTP 500 and a JSON error object.
	var rr rpcResponse
	if jerr := json.Unmarshal(raw, &rr); jerr != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: status %d, body: %s", method, resp.StatusCode, string(raw))
		}
		return fmt.Errorf("decode %s response: %w", method, jerr)
	}
	if rr.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, rr.Error.Code, rr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", method, resp.StatusCode)
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}
