package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordStroke(1)
	assert.Equal(t, float64(1), testutil.ToFloat64(a.StrokesTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.StrokesTotal))
}

func TestRecordCycleSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordCycle("desktop", "ok", 120*time.Millisecond, 2)
	m.RecordCycle("mail", "failed", time.Second, 1)
	m.RecordToolCall("delete_item", "applied")

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.CyclesCompleted)
	assert.Equal(t, int64(1), snap.CyclesFailed)
	assert.Equal(t, int64(1), snap.ToolCallsMade)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DispatchCycles.WithLabelValues("mail", "failed")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/windows/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/windows/win_123", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/windows/:id", "204")))
	assert.Equal(t, int64(1), m.Snapshot().TotalRequests)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.SetBusy(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "inkos_dispatch_busy 1"))
	assert.True(t, strings.Contains(body, "inkos_uptime_seconds"))
}

func TestTimerNilMetrics(t *testing.T) {
	timer := NewTimer(nil, "scripted")
	assert.NotPanics(t, func() { timer.Stop("ok") })
}
