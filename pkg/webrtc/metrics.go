package webrtc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricInputEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "streamlift_input_events_total",
	Help: "Synthetic input events shipped over the data channel.",
}, []string{"device"})
