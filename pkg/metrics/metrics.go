// Package metrics exposes the assistant's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orbitai"

// Metrics groups every instrument. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Turns             *prometheus.CounterVec
	Fallbacks         *prometheus.CounterVec
	ExpiredSessions   prometheus.Counter
	LiveSessions      prometheus.Gauge
	DeploySubmissions *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns processed, by routing outcome.",
		}, []string{"outcome"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "text_generation_fallbacks_total",
			Help:      "Text generation failures, by provider (canned means every provider failed).",
		}, []string{"provider"}),
		ExpiredSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Sessions removed by the TTL sweep.",
		}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_live",
			Help:      "Sessions currently held in memory.",
		}),
		DeploySubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deploy_submissions_total",
			Help:      "Deployment submissions, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Turns, m.Fallbacks, m.ExpiredSessions, m.LiveSessions, m.DeploySubmissions)
	return m
}

// Turn counts one processed turn.
func (m *Metrics) Turn(outcome string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(outcome).Inc()
}

// Fallback counts one failed provider call.
func (m *Metrics) Fallback(provider string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(provider).Inc()
}

// Expired counts sessions reaped by a sweep.
func (m *Metrics) Expired(n int) {
	if m == nil {
		return
	}
	m.ExpiredSessions.Add(float64(n))
}

// Sessions sets the live session gauge.
func (m *Metrics) Sessions(n int) {
	if m == nil {
		return
	}
	m.LiveSessions.Set(float64(n))
}

// Deploy counts one deployment submission.
func (m *Metrics) Deploy(result string) {
	if m == nil {
		return
	}
	m.DeploySubmissions.WithLabelValues(result).Inc()
}
