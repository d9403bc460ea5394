package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObserveStageDuration("pages", 120*time.Millisecond)
	rec.ObserveBuildDuration(time.Second)
	rec.IncBuildOutcome(OutcomeSuccess)
	rec.IncBuildOutcome(OutcomeFailed)
	rec.AddPagesRendered(7)
	rec.AddAssetsCopied(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["sitegen_stage_duration_seconds"])
	require.True(t, names["sitegen_build_duration_seconds"])
	require.True(t, names["sitegen_build_outcomes_total"])
	require.True(t, names["sitegen_pages_rendered_total"])
	require.True(t, names["sitegen_assets_copied_total"])
}

func TestNoopRecorder_IsSafeToUse(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveStageDuration("clean", time.Millisecond)
	rec.ObserveBuildDuration(time.Millisecond)
	rec.IncBuildOutcome(OutcomeSuccess)
	rec.AddPagesRendered(1)
	rec.AddAssetsCopied(1)
}
