package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitgroups/internal/config"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/internal/storage/memory"
	"github.com/mmynk/splitgroups/pkg/api"
	"github.com/mmynk/splitgroups/pkg/api/apiconnect"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	store := memory.New()
	require.NoError(t, storage.SeedDemo(context.Background(), store))

	s := New(cfg, store)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestHandler_Healthz(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestHandler_ServesConnectAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, nil)

	client := apiconnect.NewGroupServiceClient(http.DefaultClient, ts.URL)
	resp, err := client.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{GroupId: "1"}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Balances, 3)

	mresp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `splitgroups_rpc_requests_total{code="ok",procedure="/splitgroups.v1.GroupService/GetGroupBalances"} 1`)
}

func TestHandler_MetricsDisabled(t *testing.T) {
	s, ts := newTestServer(t, func(c *config.Config) { c.Metrics.Enabled = false })
	assert.Nil(t, s.Metrics())

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = time.Second
	s := New(cfg, memory.New())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
