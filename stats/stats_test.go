package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRunStatistics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	rs := NewRunStatistics(provider.Meter("stats_test"))
	rs.Start()
	for i := 0; i < 6; i++ {
		rs.TaskDrawn(ctx)
	}
	for i := 0; i < 5; i++ {
		rs.TaskCompleted(ctx, 10*time.Millisecond)
	}
	rs.TaskFailed(ctx)
	rs.Halted()
	rs.Finish()

	require.Equal(t, int64(6), rs.GetNumTasksDrawn())
	require.Equal(t, int64(5), rs.GetNumTasksCompleted())
	require.Equal(t, int64(1), rs.GetNumTasksFailed())
	require.True(t, rs.WasHalted())
	require.Equal(t, 10*time.Millisecond, rs.GetCurrentTaskProcessingTime())
	require.False(t, rs.GetStartTime().IsZero())
	runtime := rs.GetRuntime()
	time.Sleep(time.Millisecond)
	require.Equal(t, runtime, rs.GetRuntime())

	var rm metricdata.ResourceMetrics
	require.Nil(t, reader.Collect(ctx, &rm))
	sums := map[string]int64{}
	var latencies uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					latencies += dp.Count
				}
			}
		}
	}
	require.Equal(t, map[string]int64{
		"distiter.tasks.drawn":     6,
		"distiter.tasks.completed": 5,
		"distiter.tasks.failed":    1,
	}, sums)
	require.Equal(t, uint64(5), latencies)
}

func TestRunStatisticsWithoutMeter(t *testing.T) {
	rs := NewRunStatistics(nil)
	rs.Start()
	rs.TaskDrawn(context.Background())
	require.Equal(t, int64(1), rs.GetNumTasksDrawn())
	require.False(t, rs.WasHalted())
}
