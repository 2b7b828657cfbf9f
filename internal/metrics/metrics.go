package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventura"

// Registry is the Prometheus registry for all application metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// EventsCreated counts submitted events.
var EventsCreated = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of events submitted for review",
	},
)

// EventDecisions counts admin approve/reject/cancel decisions by outcome.
var EventDecisions = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_decisions_total",
		Help:      "Total number of event status decisions",
	},
	[]string{"status"},
)

// TicketsPurchased counts issued tickets.
var TicketsPurchased = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_purchased_total",
		Help:      "Total number of tickets purchased",
	},
)

// PaymentsSettled counts payments reaching a terminal status.
var PaymentsSettled = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_settled_total",
		Help:      "Total number of payments settled, by final status",
	},
	[]string{"status"},
)

// RemindersSent counts reminder notifications produced by the sweeper.
var RemindersSent = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Total number of event reminder notifications sent",
	},
)

// ReminderSweepErrors counts failed reminder sweeps.
var ReminderSweepErrors = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_sweep_errors_total",
		Help:      "Total number of reminder sweep failures",
	},
)
