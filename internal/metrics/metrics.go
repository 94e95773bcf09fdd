// Package metrics holds the process-wide Prometheus collectors. They are
// registered with the default registry through promauto, so any command can
// record into them without setup.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "kgraph"

var (
	// SearchesTotal counts pattern searches, labeled by whether anything matched.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of pattern searches run",
		},
		[]string{"result"},
	)

	// SearchDuration measures a whole search including result normalization.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of pattern searches in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// MatchedTotal counts the nodes and links placed in search results.
	MatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matched_total",
			Help:      "Total number of graph elements returned by searches",
		},
		[]string{"element"},
	)

	// LinkRejectionsTotal counts link creations refused by the compatibility rules.
	LinkRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_rejections_total",
			Help:      "Total number of rejected link creations",
		},
		[]string{"kind"},
	)

	// DocumentLoadsTotal counts document loads by source and outcome.
	DocumentLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_loads_total",
			Help:      "Total number of graph documents loaded",
		},
		[]string{"source", "result"},
	)

	// GraphNodes tracks the node count of each workspace graph.
	GraphNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in a workspace graph",
		},
		[]string{"role"},
	)

	// GraphElements tracks node and link counts of each workspace graph by kind.
	GraphElements = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_elements",
			Help:      "Number of nodes and links in a workspace graph, by kind",
		},
		[]string{"role", "element", "kind"},
	)
)

// Sample is one flattened metric value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot reads this package's metrics back from the default gatherer.
// Histograms are reported as their _count and _sum series.
func Snapshot() ([]Sample, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				samples = append(samples, Sample{Name: name, Labels: labels, Value: m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				samples = append(samples, Sample{Name: name, Labels: labels, Value: m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				samples = append(samples,
					Sample{Name: name + "_count", Labels: labels, Value: float64(h.GetSampleCount())},
					Sample{Name: name + "_sum", Labels: labels, Value: h.GetSampleSum()},
				)
			}
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name == samples[j].Name {
			return samples[i].Labels < samples[j].Labels
		}
		return samples[i].Name < samples[j].Name
	})
	return samples, nil
}

// Value returns the current value of a single counter or gauge series, or 0.
func Value(name string, labels ...string) float64 {
	samples, err := Snapshot()
	if err != nil {
		return 0
	}
	want := strings.Join(labels, ",")
	for _, s := range samples {
		if s.Name == name && s.Labels == want {
			return s.Value
		}
	}
	return 0
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return strings.Join(parts, ",")
}
