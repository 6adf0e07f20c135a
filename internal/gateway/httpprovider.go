package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mrz1836/devwallet/internal/metrics"
)

// HTTPProvider is a wallet handle reached over HTTP JSON-RPC, the transport a
// desktop wallet exposes its provider on.
type HTTPProvider struct {
	url        string
	brand      string
	httpClient *http.Client
	idCounter  atomic.Uint64
}

// NewHTTPProvider creates a provider handle for the given endpoint. brand is
// the handle's self-identification value; "" for a handle that does not
// identify itself.
func NewHTTPProvider(url, brand string) *HTTPProvider {
	return &HTTPProvider{
		url:        url,
		brand:      brand,
		httpClient: &http.Client{},
	}
}

// Brand returns the handle's self-identification value.
func (p *HTTPProvider) Brand() string {
	return p.brand
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Request performs a wallet RPC call. Provider errors are returned as
// *RPCError for the gateway to classify.
func (p *HTTPProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	start := time.Now()
	result, err := p.call(ctx, method, params...)
	metrics.Global.RecordRPCCall(time.Since(start), err)
	return result, err
}

func (p *HTTPProvider) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      p.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending HTTP request: %w", err)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	return resp.Result, nil
}
