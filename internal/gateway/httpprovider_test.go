package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_Request(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "eth_chainId", req.Method)
		assert.NotZero(t, req.ID)

		_ = json.NewEncoder(w).Encode(response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  json.RawMessage(`"0xaa36a7"`),
		})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "metamask")
	result, err := provider.Request(context.Background(), "eth_chainId")
	require.NoError(t, err)
	assert.JSONEq(t, `"0xaa36a7"`, string(result))
	assert.Equal(t, "metamask", provider.Brand())
}

func TestHTTPProvider_ErrorResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":4001,"message":"User rejected the request."}}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "")
	_, err := provider.Request(context.Background(), "eth_requestAccounts")
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, 4001, rpcErr.Code)
}

func TestHTTPProvider_RequestIDsIncrement(t *testing.T) {
	t.Parallel()

	var ids []uint64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		_ = json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ID)
		_ = json.NewEncoder(w).Encode(response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`null`)})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "")
	for i := 0; i < 3; i++ {
		_, err := provider.Request(context.Background(), "eth_blockNumber")
		require.NoError(t, err)
	}

	require.Len(t, ids, 3)
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])
}

func TestHTTPProvider_Unreachable(t *testing.T) {
	t.Parallel()

	provider := NewHTTPProvider("http://127.0.0.1:1", "")
	_, err := provider.Request(context.Background(), "eth_chainId")
	require.Error(t, err)
}
