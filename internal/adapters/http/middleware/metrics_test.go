package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())
	return router
}

func TestMetrics_CountsRequestsByRoute(t *testing.T) {
	router := metricsRouter()
	router.GET("/wallets/:wallet_id/balance", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(
		httpRequestsTotal.WithLabelValues("GET", "/wallets/:wallet_id/balance", "200"))

	req := httptest.NewRequest(http.MethodGet, "/wallets/W1/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	after := testutil.ToFloat64(
		httpRequestsTotal.WithLabelValues("GET", "/wallets/:wallet_id/balance", "200"))
	assert.Equal(t, before+1, after)
}

func TestMetrics_LabelsCarryStatus(t *testing.T) {
	router := metricsRouter()
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/missing", "404"))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/missing", "404"))
	assert.Equal(t, before+1, after)
}

func TestMetrics_SkipsMetricsEndpoint(t *testing.T) {
	router := metricsRouter()
	router.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "scrape")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/metrics", "200"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/metrics", "200"))
	assert.Equal(t, before, after)
}

func TestMetrics_UnmatchedRouteLabeledUnknown(t *testing.T) {
	router := metricsRouter()

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordWalletOperation(t *testing.T) {
	before := testutil.ToFloat64(WalletOperationsTotal.WithLabelValues("transfer", "ok"))

	RecordWalletOperation("transfer", "ok")

	after := testutil.ToFloat64(WalletOperationsTotal.WithLabelValues("transfer", "ok"))
	assert.Equal(t, before+1, after)
}
