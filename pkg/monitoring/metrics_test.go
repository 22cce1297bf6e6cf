package monitoring_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/graph-mcmc/pkg/monitoring"
)

func TestObserveChain(t *testing.T) {
	m := monitoring.New()
	m.ObserveChain("CM", 1000, 400, 2*time.Second)
	m.ObserveChain("CM", 500, 100, time.Second)

	require.Equal(t, 500.0, testutil.ToFloat64(m.ProposalsTotal.WithLabelValues("CM", "accepted")))
	require.Equal(t, 1000.0, testutil.ToFloat64(m.ProposalsTotal.WithLabelValues("CM", "rejected")))
	require.Equal(t, 500.0, testutil.ToFloat64(m.SwapsTotal.WithLabelValues("CM")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := monitoring.New()
	m.ActiveChains.Set(3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "mcmc_active_chains 3")
}
