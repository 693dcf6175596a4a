package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "http_requests_total", Help: "Number of HTTP requests by path, method and status."},
		[]string{"path", "method", "status"},
	)
	QueueMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authgw", Name: "queue_messages_published_total", Help: "Number of messages published by queue."},
		[]string{"queue"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(QueueMessagesPublished)
}
