package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewWithRegisterer("scheduling-test", prometheus.NewRegistry())

	m.ObserveBooking("success")
	m.ObserveBooking("success")
	m.ObserveBooking("slot_unavailable")
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveLockWait(10*time.Millisecond, true)
	m.ObserveTransition("cancelled")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("slot_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleCacheOps.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("cancelled")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBooking("success")
		m.ObserveLockWait(time.Second, false)
		m.ObserveCache(true)
		m.ObserveTransition("finished")
	})
}
