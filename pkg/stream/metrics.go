package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamlift_sessions_total",
		Help: "Stream sessions by lifecycle action.",
	}, []string{"action"})
	metricPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamlift_status_polls_total",
		Help: "Remote status polls by result.",
	}, []string{"result"})
	metricConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamlift_connected",
		Help: "Whether the stream transport is connected.",
	})
)
