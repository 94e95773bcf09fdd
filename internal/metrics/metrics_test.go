package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ReadsCounters(t *testing.T) {
	before := Value("kgraph_link_rejections_total", `kind="ako"`)
	LinkRejectionsTotal.WithLabelValues("ako").Inc()
	LinkRejectionsTotal.WithLabelValues("ako").Inc()

	assert.Equal(t, before+2, Value("kgraph_link_rejections_total", `kind="ako"`))
}

func TestSnapshot_FlattensHistograms(t *testing.T) {
	SearchDuration.Observe(0.002)

	samples, err := Snapshot()
	require.NoError(t, err)

	var count, sum bool
	for _, s := range samples {
		assert.Contains(t, s.Name, "kgraph_")
		switch s.Name {
		case "kgraph_search_duration_seconds_count":
			count = s.Value >= 1
		case "kgraph_search_duration_seconds_sum":
			sum = s.Value > 0
		}
	}
	assert.True(t, count)
	assert.True(t, sum)
}

func TestSample_String(t *testing.T) {
	assert.Equal(t, `kgraph_graph_nodes{role="current"} 3`, Sample{Name: "kgraph_graph_nodes", Labels: `role="current"`, Value: 3}.String())
	assert.Equal(t, "kgraph_x 1.5", Sample{Name: "kgraph_x", Value: 1.5}.String())
}
