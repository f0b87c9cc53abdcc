package app

import (
	"strconv"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x/remittance"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of a Host.
type Metrics struct {
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	packages  prometheus.Gauge
}

// NewMetrics creates the host collectors and registers them.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remit",
			Subsystem: "host",
			Name:      "tx_delivered_total",
			Help:      "Transactions successfully delivered, by message path.",
		}, []string{"path"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remit",
			Subsystem: "host",
			Name:      "tx_failed_total",
			Help:      "Transactions rejected on delivery, by message path and error code.",
		}, []string{"path", "code"}),
		packages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "remit",
			Subsystem: "ledger",
			Name:      "active_packages",
			Help:      "Packages waiting for a claim or a cancel.",
		}),
	}
	for _, c := range []prometheus.Collector{m.delivered, m.failed, m.packages} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "register metric: %s", err)
		}
	}
	return m, nil
}

// seed sets the package gauge from the stored state.
func (m *Metrics) seed(db remit.ReadOnlyKVStore) error {
	n, err := remittance.NewBucket().CountActive(db)
	if err != nil {
		return errors.Wrap(err, "count active packages")
	}
	m.packages.Set(float64(n))
	return nil
}

// observe records the outcome of one delivered transaction.
func (m *Metrics) observe(path string, res *remit.DeliverResult, err error) {
	if err != nil {
		m.failed.WithLabelValues(path, strconv.FormatUint(uint64(errors.Code(err)), 10)).Inc()
		return
	}
	m.delivered.WithLabelValues(path).Inc()
	for _, e := range res.Events {
		switch e.(type) {
		case remittance.PackageCreated:
			m.packages.Inc()
		case remittance.PackageClaimed, remittance.PackageCancelled:
			m.packages.Dec()
		}
	}
}
