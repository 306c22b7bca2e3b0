package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReconstruct(t *testing.T) {
	before := testutil.ToFloat64(Reconstructions)
	skippedBefore := testutil.ToFloat64(EntriesSkipped)
	seriesBefore := testutil.CollectAndCount(Entries)

	ObserveReconstruct(time.Now(), 12, 2, 3, 5)
	ObserveReconstruct(time.Now(), 4, 0, 1, 0)

	assert.Equal(t, before+2, testutil.ToFloat64(Reconstructions))
	assert.Equal(t, skippedBefore+2, testutil.ToFloat64(EntriesSkipped))
	assert.Equal(t, seriesBefore, testutil.CollectAndCount(Entries), "no per-user series")
	assert.Equal(t, 1, testutil.CollectAndCount(OpenPositions))
	assert.Equal(t, 1, testutil.CollectAndCount(ClosedLots))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := HTTPRequestsTotal.WithLabelValues("GET", "/things/{id}", "418")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/things/42", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
