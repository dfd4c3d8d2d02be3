// Package metrics contém os coletores Prometheus compartilhados pelos handlers,
// pelo registro de ferramentas e pelos adaptadores de LLM.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ChatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_supervisor_chat_requests_total",
			Help: "Total number of /chat requests by outcome",
		},
		[]string{"status"},
	)
	ChatDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travel_supervisor_chat_duration_seconds",
			Help:    "Time spent invoking the supervisor for one chat request",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
	ToolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_supervisor_tool_calls_total",
			Help: "Total number of tool invocations by tool and outcome",
		},
		[]string{"tool", "status"},
	)
	LLMCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_supervisor_llm_calls_total",
			Help: "Total number of LLM provider calls",
		},
		[]string{"provider", "status"},
	)
)

func init() {
	prometheus.MustRegister(ChatRequests)
	prometheus.MustRegister(ChatDuration)
	prometheus.MustRegister(ToolCalls)
	prometheus.MustRegister(LLMCalls)
}
