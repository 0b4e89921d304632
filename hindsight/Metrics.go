package hindsight

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records Prometheus metrics for a hindsight replay buffer. A nil
// *Metrics records nothing.
type Metrics struct {
	sampled        *prometheus.CounterVec
	relabeledTotal *prometheus.CounterVec
	nullGoalSkips  *prometheus.CounterVec
	storedEpisodes prometheus.Gauge
}

// NewMetrics creates the buffer metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sampled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "her_sampled_transitions_total",
			Help: "Number of transitions returned by Sample.",
		}, []string{"strategy"}),
		relabeledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "her_relabeled_transitions_total",
			Help: "Number of sampled transitions whose goal was relabeled.",
		}, []string{"strategy"}),
		nullGoalSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "her_null_goal_skips_total",
			Help: "Number of relabelings skipped because the goal was null.",
		}, []string{"strategy"}),
		storedEpisodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "her_stored_episodes",
			Help: "Number of episodes in the store at the last sample.",
		}),
	}

	collectors := []prometheus.Collector{m.sampled, m.relabeledTotal,
		m.nullGoalSkips, m.storedEpisodes}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) sampledTransitions(s StrategyType, n int) {
	if m == nil {
		return
	}
	m.sampled.WithLabelValues(string(s)).Add(float64(n))
}

func (m *Metrics) relabeled(s StrategyType) {
	if m == nil {
		return
	}
	m.relabeledTotal.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) nullGoalSkipped(s StrategyType) {
	if m == nil {
		return
	}
	m.nullGoalSkips.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) setStoredEpisodes(n int) {
	if m == nil {
		return
	}
	m.storedEpisodes.Set(float64(n))
}
