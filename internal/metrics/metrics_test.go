package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmrouter/internal/metrics"
)

func TestMetrics(t *testing.T) {
	t.Run("should count requests and errors per pair", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m, err := metrics.New(reg)
		require.NoError(t, err)

		m.IncRequests("google", "gemini")
		m.IncRequests("google", "gemini")
		m.IncRequests("ollama", "llama3")
		m.IncErrors("google", "gemini")

		expected := `
# HELP llm_requests_total Total LLM generate requests
# TYPE llm_requests_total counter
llm_requests_total{model="gemini",provider="google"} 2
llm_requests_total{model="llama3",provider="ollama"} 1
# HELP llm_errors_total Total LLM generate requests that ended in an error
# TYPE llm_errors_total counter
llm_errors_total{model="gemini",provider="google"} 1
`
		require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
			"llm_requests_total", "llm_errors_total"))
	})

	t.Run("should observe latency in seconds", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m, err := metrics.New(reg)
		require.NoError(t, err)

		m.ObserveLatency("echo", "echo4", 1500*time.Millisecond)

		families, err := reg.Gather()
		require.NoError(t, err)

		var found bool
		for _, family := range families {
			if family.GetName() != "llm_request_latency_seconds" {
				continue
			}
			found = true
			hist := family.GetMetric()[0].GetHistogram()
			require.Equal(t, uint64(1), hist.GetSampleCount())
			require.InDelta(t, 1.5, hist.GetSampleSum(), 1e-9)
		}
		require.True(t, found)
	})

	t.Run("should reuse collectors on repeated registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		first, err := metrics.New(reg)
		require.NoError(t, err)
		second, err := metrics.New(reg)
		require.NoError(t, err)

		first.IncRequests("p", "m")
		second.IncRequests("p", "m")

		count, err := testutil.GatherAndCount(reg, "llm_requests_total")
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}
