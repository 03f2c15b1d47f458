package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QueueJoins = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tiertest_queue_joins_total", Help: "Total participants appended to a queue"},
	)
	QueueLeaves = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tiertest_queue_leaves_total", Help: "Total queue/roster departures"},
	)
	HeadNotifications = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tiertest_head_notifications_total", Help: "Total head-of-line DMs delivered"},
	)
	SessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tiertest_sessions_total", Help: "Total testing channels spawned"},
	)
	Checkpoints = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tiertest_checkpoints_total", Help: "Total bucket-table checkpoints written"},
	)
)

func Register() {
	prometheus.MustRegister(QueueJoins, QueueLeaves, HeadNotifications, SessionsCreated, Checkpoints)
}
