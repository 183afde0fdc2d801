package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPopulate(t *testing.T) {
	before := testutil.ToFloat64(populateRuns.WithLabelValues("succeeded"))
	gamesBefore := testutil.ToFloat64(populateGames)

	RecordPopulate("succeeded", 6, 25*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(populateRuns.WithLabelValues("succeeded")))
	assert.Equal(t, gamesBefore+6, testutil.ToFloat64(populateGames))
}

func TestRecordPopulate_FailureAddsNoGames(t *testing.T) {
	gamesBefore := testutil.ToFloat64(populateGames)

	RecordPopulate("failed", 0, time.Millisecond)

	assert.Equal(t, gamesBefore, testutil.ToFloat64(populateGames))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/games", "200", time.Millisecond)
	RecordUpstreamFetch("android", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "gamecatalog_http_requests_total")
	assert.Contains(t, body, "gamecatalog_upstream_fetch_duration_seconds")
}
