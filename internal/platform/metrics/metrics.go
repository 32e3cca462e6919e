package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records scheduler and HTTP metrics in Prometheus.
type Recorder struct {
	schedules *prometheus.CounterVec
	days      prometheus.Histogram
	rests     *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewRecorder registers metrics on the provided registerer. A nil registerer
// defaults to the global one. Collectors that are already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hos_schedules_total",
			Help: "Schedules built, by result",
		}, []string{"result"}),
		days: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hos_schedule_days",
			Help:    "Number of log days per built schedule",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 14},
		}),
		rests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hos_rests_total",
			Help: "Rests inserted by the scheduler, by event type",
		}, []string{"type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests, by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	var err error
	if r.schedules, err = register(reg, r.schedules); err != nil {
		return nil, err
	}
	if r.days, err = register(reg, r.days); err != nil {
		return nil, err
	}
	if r.rests, err = register(reg, r.rests); err != nil {
		return nil, err
	}
	if r.requests, err = register(reg, r.requests); err != nil {
		return nil, err
	}
	if r.latency, err = register(reg, r.latency); err != nil {
		return nil, err
	}

	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveSchedule records a built schedule: its day count and the rests it
// contains, keyed by event type.
func (r *Recorder) ObserveSchedule(days int, rests map[string]int) {
	if r == nil {
		return
	}
	r.schedules.WithLabelValues("ok").Inc()
	r.days.Observe(float64(days))
	for typ, n := range rests {
		r.rests.WithLabelValues(typ).Add(float64(n))
	}
}

// ScheduleFailed records a request that produced no schedule.
func (r *Recorder) ScheduleFailed(reason string) {
	if r == nil {
		return
	}
	r.schedules.WithLabelValues(reason).Inc()
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(route, method string, status int, dur time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route).Observe(dur.Seconds())
}
