// Package metrics Prometheus 指标定义
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InviteIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "links_invite_issued_total",
		Help: "Invite link requests by outcome (created, cache_hit, passthrough, failed)",
	}, []string{"outcome"})

	InviteRevoked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "links_invite_revoked_total",
		Help: "Invite link revocations by reason and result",
	}, []string{"reason", "result"})

	PendingRevokes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "links_invite_pending_revokes",
		Help: "Number of scheduled deferred revocations",
	})

	FSubChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "links_fsub_checks_total",
		Help: "Force-subscribe membership checks by result",
	}, []string{"result"})

	TempBans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "links_antispam_temp_bans_total",
		Help: "Temporary bans issued by the flood guard",
	})

	BroadcastDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "links_broadcast_deliveries_total",
		Help: "Broadcast deliveries by outcome",
	}, []string{"outcome"})

	Updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "links_updates_total",
		Help: "Telegram updates handled by kind",
	}, []string{"kind"})
)
