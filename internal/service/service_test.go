package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitgroups/internal/metrics"
	"github.com/mmynk/splitgroups/internal/middleware"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/internal/storage/memory"
	"github.com/mmynk/splitgroups/pkg/api"
	"github.com/mmynk/splitgroups/pkg/api/apiconnect"
)

type testEnv struct {
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
	metrics  *metrics.Collector
}

// setupTestServer creates a test server with both services over a memory
// store. When seed is true the demo data is loaded first.
func setupTestServer(t *testing.T, seed bool) *testEnv {
	t.Helper()

	store := memory.New()
	if seed {
		require.NoError(t, storage.SeedDemo(context.Background(), store))
	}
	collector := metrics.NewCollector("test")

	interceptors := connect.WithInterceptors(
		middleware.RequestIDInterceptor(),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(collector),
	)
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, collector), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, collector), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		metrics:  collector,
	}
}

func createTestGroup(t *testing.T, env *testEnv, names ...string) *api.Group {
	t.Helper()
	members := make([]*api.NewMember, len(names))
	for i, n := range names {
		members[i] = &api.NewMember{Id: n, Name: n, Email: n + "@example.com"}
	}
	resp, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Roommates",
		Members: members,
	}))
	require.NoError(t, err)
	return resp.Msg.Group
}

func balanceOf(t *testing.T, balances []*api.Balance, memberID string) float64 {
	t.Helper()
	for _, b := range balances {
		if b.MemberId == memberID {
			return b.Amount
		}
	}
	t.Fatalf("no balance for member %s", memberID)
	return 0
}

func sumBalances(balances []*api.Balance) float64 {
	var sum float64
	for _, b := range balances {
		sum += b.Amount
	}
	return sum
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}
