package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygn-cloud-ai/cascade"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/memory"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/stub"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
	"github.com/oxygn-cloud-ai/cascade/pkg/observability"
)

func TestMetrics_CountRunActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	provider := memory.NewProvider()
	provider.AddNode(domain.Node{ID: "root"})
	require.NoError(t, provider.AddChild("root", domain.Node{ID: "a", Name: "A"}))
	require.NoError(t, provider.AddChild("root", domain.Node{ID: "b", Name: "B", ExcludeFromCascade: true}))

	eng, err := cascade.New(provider, stub.New(), cascade.WithHooks(metrics.Hooks()))
	require.NoError(t, err)

	require.NoError(t, eng.Start(context.Background(), "root"))
	select {
	case <-eng.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish in time")
	}

	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.RunsTotal().WithLabelValues("completed")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.NodesTotal().WithLabelValues("completed")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.NodesTotal().WithLabelValues("skipped")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveRuns()))
}
