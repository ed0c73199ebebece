package metrics_test

import (
	"testing"

	"github.com/SaracenOne/bitwire/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCollectorReportsSnapshot(t *testing.T) {
	c := metrics.NewCollector(func() metrics.Snapshot {
		return metrics.Snapshot{BytesWritten: 42, TypeDescriptorsInterned: 3}
	})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "bitwire_bytes_written_total" {
			found = true
			require.InDelta(t, 42, mf.Metric[0].GetCounter().GetValue(), 1e-9)
		}
	}
	require.True(t, found)
}
