package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements Recorder on prometheus counters.
type PrometheusRecorder struct {
	loginsStarted    prometheus.Counter
	loginsCompleted  prometheus.Counter
	grantsIssued     prometheus.Counter
	notifierFailures prometheus.Counter
}

// NewPrometheusRecorder registers the portal counters with reg; nil uses the
// default registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		loginsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "splashgate_logins_started_total",
			Help: "Redirects issued to the identity provider",
		}),
		loginsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "splashgate_logins_completed_total",
			Help: "Callbacks that produced a verified identity",
		}),
		grantsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "splashgate_grants_issued_total",
			Help: "Grant redirects sent back to the access controller",
		}),
		notifierFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "splashgate_notifier_failures_total",
			Help: "Failed best-effort client provisioning calls",
		}),
	}
}

func (r *PrometheusRecorder) LoginStarted()    { r.loginsStarted.Inc() }
func (r *PrometheusRecorder) LoginCompleted()  { r.loginsCompleted.Inc() }
func (r *PrometheusRecorder) GrantIssued()     { r.grantsIssued.Inc() }
func (r *PrometheusRecorder) NotifierFailure() { r.notifierFailures.Inc() }
