package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("test")

	c.ObserveRPC("/splitgroups.v1.GroupService/GetGroup", "ok", 5*time.Millisecond)
	c.ObserveRPC("/splitgroups.v1.GroupService/GetGroup", "not_found", time.Millisecond)
	c.ExpenseCreated("equal", 120.50)
	c.ExpenseCreated("percentage", 85.30)
	c.ExpenseCreated("equal", 45.75)
	c.SettlementRecorded()
	c.GroupCreated()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.RPCRequests.WithLabelValues("/splitgroups.v1.GroupService/GetGroup", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ExpensesCreated.WithLabelValues("equal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExpensesCreated.WithLabelValues("percentage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SettlementsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GroupsCreated))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.GroupCreated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_groups_created_total 1")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRPC("p", "ok", time.Second)
		c.ExpenseCreated("equal", 1)
		c.SettlementRecorded()
		c.GroupCreated()
	})
}
