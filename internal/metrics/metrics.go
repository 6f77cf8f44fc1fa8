package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ApplicationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mentormatch_applications_created_total", Help: "Total applications created"},
	)
	ApplicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mentormatch_application_transitions_total", Help: "Total application status transitions"},
		[]string{"status"},
	)
	CapacityRejections = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mentormatch_capacity_rejections_total", Help: "Total approvals rejected because the supervisor was at capacity"},
	)
	PartnershipRequests = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mentormatch_partnership_requests_total", Help: "Total partnership requests created"},
	)
	PartnershipsFormed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mentormatch_partnerships_formed_total", Help: "Total partnerships formed via accepted requests"},
	)
)

func Register() {
	prometheus.MustRegister(
		ApplicationsCreated,
		ApplicationTransitions,
		CapacityRejections,
		PartnershipRequests,
		PartnershipsFormed,
	)
}
