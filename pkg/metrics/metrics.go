package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wikidocollab", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wikidocollab", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// realtime broker
	SocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "wikidocollab", Name: "socket_connections", Help: "Currently connected websocket clients."},
	)
	SocketRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "wikidocollab", Name: "socket_rooms", Help: "Currently active document rooms."},
	)
	EditsPersisted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "wikidocollab", Name: "edits_persisted_total", Help: "Edit broadcasts written through to the document store."},
	)
	EditsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "wikidocollab", Name: "edits_rejected_total", Help: "Edit broadcasts dropped for lacking edit capability."},
	)
	ContentBroadcasts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "wikidocollab", Name: "content_broadcasts_total", Help: "doc-content messages relayed to room members."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SocketConnections)
	reg.MustRegister(SocketRooms)
	reg.MustRegister(EditsPersisted)
	reg.MustRegister(EditsRejected)
	reg.MustRegister(ContentBroadcasts)
}
