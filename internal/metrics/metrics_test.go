// internal/metrics/metrics_test.go
package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersMove(t *testing.T) {
	before := testutil.ToFloat64(CoinsAccepted)
	CoinsAccepted.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CoinsAccepted))

	Purchases.WithLabelValues("product1", "approved").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(Purchases.WithLabelValues("product1", "approved")), 1.0)

	Balance.Set(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(Balance))
}

func TestHandlerExposesVendiMetrics(t *testing.T) {
	ControlBytesReceived.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "vendi_control_bytes_received_total")
	assert.Contains(t, string(body), "vendi_balance_coins")
}
