package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsRows(t *testing.T) {
	c := NewCollector()

	c.RunStarted(engine.ProcedureClassify, 3)
	c.RowProcessed(engine.ProcedureClassify, engine.RowResult{Outcome: engine.OutcomeUpdatedAuto})
	c.RowProcessed(engine.ProcedureClassify, engine.RowResult{Outcome: engine.OutcomeUpdated})
	c.RowProcessed(engine.ProcedureClassify, engine.RowResult{Outcome: engine.OutcomeSkipped, Reason: engine.SkipNoMatch})
	c.RunFinished(&engine.Report{Procedure: engine.ProcedureClassify, Duration: 2 * time.Second})
	c.RunFinished(&engine.Report{Procedure: engine.ProcedureBackfill, Err: "storage failure"})
	c.RunFinished(nil)

	assert.InDelta(t, 1, testutil.ToFloat64(c.rows.WithLabelValues("classify", "updated_auto")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.rows.WithLabelValues("classify", "skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.skips.WithLabelValues("classify", "no_match")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues("classify", ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues("backfill_subcategories", ResultFailure)), 0)
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	c.RecordIngest(2, 1, 1)
	c.RunFinished(&engine.Report{Procedure: engine.ProcedureClassify})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `taxonomist_feed_items_total{outcome="inserted"} 2`)
	assert.Contains(t, body, "taxonomist_run_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
