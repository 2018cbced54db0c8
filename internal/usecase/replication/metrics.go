package replication

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	state     *prometheus.GaugeVec
	pushes    *prometheus.CounterVec
	mutations prometheus.Counter
}

// NewMetrics registers the sync collectors on reg. A nil reg keeps them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kitabu",
			Subsystem: "sync",
			Name:      "state",
			Help:      "1 for the current replication state, 0 for the others.",
		}, []string{"state"}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kitabu",
			Subsystem: "sync",
			Name:      "pushes_total",
			Help:      "Snapshot pushes to the remote service by result.",
		}, []string{"result"}),
		mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitabu",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Committed store mutations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.state, m.pushes, m.mutations)
	}
	m.setState(StateIdle)
	return m
}

func (m *Metrics) setState(st State) {
	for _, s := range []State{StateIdle, StateSyncing, StateSuccess, StateError} {
		v := 0.0
		if s == st {
			v = 1
		}
		m.state.WithLabelValues(string(s)).Set(v)
	}
}
