package connector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 连接编排指标
//
// 重试对调用方不可见，指标是观察中间尝试的唯一途径（除日志外）。
var (
	channelsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "connector",
		Name:      "channels_created_total",
		Help:      "Total number of channels created by the connector.",
	})

	connectAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "connector",
		Name:      "connect_attempts_total",
		Help:      "Total number of connect attempts, including address fallback retries.",
	})

	connectRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "connector",
		Name:      "connect_retries_total",
		Help:      "Total number of address fallback retries with a fresh channel.",
	})

	connectFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "connector",
		Name:      "connect_failures_total",
		Help:      "Total number of connects that failed after exhausting all candidates.",
	})
)
