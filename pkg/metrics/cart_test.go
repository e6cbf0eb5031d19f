package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCartMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)

	metrics.IncMutation("add_item")
	metrics.IncMutation("add_item")
	metrics.IncSnapshotFailure()
	metrics.IncCouponRejection()

	if got := testutil.ToFloat64(metrics.mutations.WithLabelValues("add_item")); got != 2 {
		t.Fatalf("expected 2 add_item mutations, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.snapshotFailures); got != 1 {
		t.Fatalf("expected 1 snapshot failure, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.couponRejections); got != 1 {
		t.Fatalf("expected 1 coupon rejection, got %f", got)
	}
}

func TestCronJobMetricsCountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	cron := NewCronJobMetrics(reg)

	cron.IncSuccess("coupon_expiry")
	cron.IncSuccess("coupon_expiry")
	cron.IncFailure("coupon_expiry")

	if got := testutil.ToFloat64(cron.runs.WithLabelValues("coupon_expiry", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %f", got)
	}
	if got := testutil.ToFloat64(cron.runs.WithLabelValues("coupon_expiry", "failure")); got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	metrics := NewCartMetrics(nil)
	metrics.IncMutation("noop")
	metrics.IncSnapshotFailure()

	cron := NewCronJobMetrics(nil)
	cron.IncSuccess("noop")
	cron.IncFailure("noop")
}
