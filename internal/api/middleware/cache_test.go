package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/observability"
)

type fakeCacheProvider struct {
	store map[string][]byte
}

func newFakeCacheProvider() *fakeCacheProvider {
	return &fakeCacheProvider{store: map[string][]byte{}}
}

func (f *fakeCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := f.store[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return value, nil
}

func (f *fakeCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	f.store[key] = value
	return nil
}

func (f *fakeCacheProvider) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	return nil
}

func (f *fakeCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.store[key]
	return ok, nil
}

func newTestMetrics(t *testing.T) (*observability.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	metrics, err := observability.InitMetrics()
	require.NoError(t, err)
	return metrics, reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestCacheMiddleware_RecordsHitAndMissCounters(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	cacheMiddleware := NewCacheMiddleware(newFakeCacheProvider(), metrics)

	handler := cacheMiddleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hospitals": []}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?lat=40.7&lng=-74.0", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?lat=40.7&lng=-74.0", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	assert.Equal(t, int64(1), counterValue(t, reader, "cache.miss.count"))
	assert.Equal(t, int64(1), counterValue(t, reader, "cache.hit.count"))
}

func TestCacheMiddleware_NilMetrics(t *testing.T) {
	cacheMiddleware := NewCacheMiddleware(newFakeCacheProvider(), nil)

	handler := cacheMiddleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hospitals/nearby?lat=1&lng=2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
