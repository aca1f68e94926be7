package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/locations/:location_id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/locations/7", nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/locations/:location_id", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveImportBatch(t *testing.T) {
	m := New()
	m.ObserveImportBatch(nil)
	m.ObserveImportBatch(nil)
	m.ObserveImportBatch(errors.New("db down"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.importBatches.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.importBatches.WithLabelValues("failure")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveImportBatch(nil) })
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveImportBatch(nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `estatequery_listing_import_batches_total{result="success"} 1`)
}
