package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics tracks cart store activity.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	snapshotFailures prometheus.Counter
	couponRejections prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	snapshotFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_snapshot_failures_total",
		Help: "Best-effort snapshot writes that failed.",
	})
	couponRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_coupon_rejections_total",
		Help: "Coupon codes rejected by the authority.",
	})
	reg.MustRegister(mutations, snapshotFailures, couponRejections)
	return &CartMetrics{
		mutations:        mutations,
		snapshotFailures: snapshotFailures,
		couponRejections: couponRejections,
	}
}

// IncMutation counts one committed mutation for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(op).Inc()
}

// IncSnapshotFailure counts one swallowed persistence failure.
func (c *CartMetrics) IncSnapshotFailure() {
	if c == nil || c.snapshotFailures == nil {
		return
	}
	c.snapshotFailures.Inc()
}

// IncCouponRejection counts one rejected coupon code.
func (c *CartMetrics) IncCouponRejection() {
	if c == nil || c.couponRejections == nil {
		return
	}
	c.couponRejections.Inc()
}
